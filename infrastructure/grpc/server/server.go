package server

import (
	"log/slog"
	"market-lab/auth"
	"market-lab/infrastructure/grpc/api"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

// New builds the gRPC server with logging, authentication and a per-call
// timeout on unary calls and registers the three services.
func New(logger *slog.Logger, validator auth.TokenValidator, timeout time.Duration,
	conversations *ConversationServer, hires *HireServer, accounts *AccountServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			auth.AuthInterceptor(validator),
			TimeoutInterceptor(timeout),
		),
		grpc.ChainStreamInterceptor(
			auth.StreamAuthInterceptor(validator),
		))
	api.RegisterConversationServiceServer(s, conversations)
	api.RegisterHireServiceServer(s, hires)
	api.RegisterAccountServiceServer(s, accounts)
	return s
}
