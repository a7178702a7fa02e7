package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"market-lab/auth"
	"market-lab/infrastructure/grpc/client"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// BaseGrpcSuite runs scenarios against a live server. It is skipped when
// MARKET_ADDR is not set.
type BaseGrpcSuite struct {
	suite.Suite
	Config Config
	tokens *auth.TokenIssuer
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.MarketAddr == "" || s.Config.JwtSecret == "" {
		s.T().Skip("MARKET_ADDR and JWT_SECRET are required for e2e scenarios")
	}
	s.tokens = auth.NewTokenIssuer(s.Config.JwtSecret, s.Config.JwtIssuer, time.Hour)
}

// Token mints a session for userID the way the sign-in flow would.
func (s *BaseGrpcSuite) Token(userID string) string {
	token, _, err := s.tokens.Issue(userID)
	s.Require().NoError(err)
	return token
}

// Connect opens a client with logging, colors and JSON debugging.
func (s *BaseGrpcSuite) Connect(t *testing.T, name string) *client.MarketClient {
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	// 2. Log every call, with bodies when E2E_DEBUG_JSON is enabled
	c, err := client.Dial(s.Config.MarketAddr,
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, pretty(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, pretty(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.MarketAddr)
	return c
}

// WithMarket provides a client within a contextual test step.
func (s *BaseGrpcSuite) WithMarket(name string, fn func(ctx context.Context, c *client.MarketClient)) {
	c := s.Connect(s.T(), name)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, c)
}

func pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
