package client

import (
	"context"
	"market-lab/infrastructure/grpc/api"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// MarketClient bundles the typed clients of the three services over one connection.
type MarketClient struct {
	conn          *grpc.ClientConn
	Conversations *api.ConversationServiceClient
	Hires         *api.HireServiceClient
	Accounts      *api.AccountServiceClient
}

// Dial connects without TLS unless opts says otherwise.
func Dial(target string, opts ...grpc.DialOption) (*MarketClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c := NewMarketClient(conn)
	c.conn = conn
	return c, nil
}

func NewMarketClient(cc grpc.ClientConnInterface) *MarketClient {
	return &MarketClient{
		Conversations: api.NewConversationServiceClient(cc),
		Hires:         api.NewHireServiceClient(cc),
		Accounts:      api.NewAccountServiceClient(cc),
	}
}

func (c *MarketClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// bearerToken attaches the session credential to every call.
type bearerToken struct {
	token  string
	secure bool
}

func (b bearerToken) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool { return b.secure }

// WithBearerToken is a dial option for clients holding a session credential.
func WithBearerToken(token string) grpc.DialOption {
	return grpc.WithPerRPCCredentials(bearerToken{token: token})
}

// CallAs authenticates a single call, for clients acting for several users.
func CallAs(token string) grpc.CallOption {
	return grpc.PerRPCCredentials(bearerToken{token: token})
}
