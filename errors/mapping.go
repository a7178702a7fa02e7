package errors

import (
	"context"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodes = map[error]codes.Code{
	ErrInvalidParticipants:   codes.InvalidArgument,
	ErrInvalidMessage:        codes.InvalidArgument,
	ErrInvalidRequest:        codes.InvalidArgument,
	ErrForbidden:             codes.PermissionDenied,
	ErrInvalidTransition:     codes.FailedPrecondition,
	ErrConflictingTransition: codes.Aborted,
	ErrIdentity:              codes.Unauthenticated,
	ErrUnauthenticated:       codes.Unauthenticated,
	ErrNotFound:              codes.NotFound,
	ErrStorageUnavailable:    codes.Unavailable,
	ErrTokenGeneration:       codes.Internal,
}

var httpStatuses = map[error]int{
	ErrInvalidParticipants:   http.StatusBadRequest,
	ErrInvalidMessage:        http.StatusBadRequest,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrForbidden:             http.StatusForbidden,
	ErrInvalidTransition:     http.StatusConflict,
	ErrConflictingTransition: http.StatusConflict,
	ErrIdentity:              http.StatusUnauthorized,
	ErrUnauthenticated:       http.StatusUnauthorized,
	ErrNotFound:              http.StatusNotFound,
	ErrStorageUnavailable:    http.StatusServiceUnavailable,
	ErrTokenGeneration:       http.StatusInternalServerError,
}

// MapToGRPCError converts a domain error into a gRPC status.
// Only the kind is exposed to the client, wrapped causes stay in the logs.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	if kind := Kind(err); kind != nil {
		return status.Error(grpcCodes[kind], kind.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

// ToHTTPStatus returns the status code and public message for err.
func ToHTTPStatus(err error) (int, string) {
	if kind := Kind(err); kind != nil {
		return httpStatuses[kind], kind.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
