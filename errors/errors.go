package errors

import "fmt"

// Domain error kinds. Services wrap them with %w, callers match with errors.Is.
var (
	ErrInvalidParticipants   = fmt.Errorf("invalid participants")
	ErrInvalidMessage        = fmt.Errorf("invalid message")
	ErrForbidden             = fmt.Errorf("forbidden")
	ErrInvalidRequest        = fmt.Errorf("invalid request")
	ErrInvalidTransition     = fmt.Errorf("invalid transition")
	ErrConflictingTransition = fmt.Errorf("conflicting transition")
	ErrIdentity              = fmt.Errorf("identity error")
	ErrNotFound              = fmt.Errorf("not found")
	ErrStorageUnavailable    = fmt.Errorf("storage unavailable")
	ErrUnauthenticated       = fmt.Errorf("unauthenticated")
	ErrTokenGeneration       = fmt.Errorf("token generation failed")
	ErrWorkerPanic           = fmt.Errorf("worker panic")
)

var kinds = []error{
	ErrInvalidParticipants,
	ErrInvalidMessage,
	ErrForbidden,
	ErrInvalidRequest,
	ErrInvalidTransition,
	ErrConflictingTransition,
	ErrIdentity,
	ErrNotFound,
	ErrStorageUnavailable,
	ErrUnauthenticated,
	ErrTokenGeneration,
}

// Kind returns the sentinel wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range kinds {
		if Is(err, kind) {
			return kind
		}
	}
	return nil
}
