package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// TimeoutInterceptor bounds every unary call, storage included, by timeout.
// A caller deadline that is already shorter wins. Zero disables the bound.
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}
