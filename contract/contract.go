//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"market-lab/domain"
	"market-lab/domain/event"
	"market-lab/domain/hire"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// IConversationRepository owns conversation records and the participant-key index.
type IConversationRepository interface {
	// GetOrCreate returns the conversation for participants, creating it at most once per set.
	GetOrCreate(ctx context.Context, participants domain.ParticipantSet) (domain.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
}

// IMessageRepository persists messages and keeps each conversation's id list
// and tail pointer in step with them.
type IMessageRepository interface {
	// Append stores message and, atomically, pushes its id and moves the tail pointer.
	// Appends to the same conversation are serialized.
	Append(ctx context.Context, conversationID uuid.UUID, message domain.Message) (domain.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Message, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Message, error)
	// MarkRead flips the read flag and reports whether it changed.
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
}

type IHireRequestRepository interface {
	Create(ctx context.Context, request hire.HireRequest) error
	Get(ctx context.Context, id uuid.UUID) (hire.HireRequest, error)
	// CompareAndSwapStatus moves the request to next only if it is still in expected.
	CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expected, next hire.Status, at time.Time) (hire.HireRequest, error)
	ListByParticipant(ctx context.Context, userID string) ([]hire.HireRequest, error)
}

type IProfileRepository interface {
	FindOrCreate(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	Get(ctx context.Context, userID string) (domain.Profile, error)
	UpdateAddress(ctx context.Context, userID, addressLine string) (domain.Profile, error)
}

type IProviderRoster interface {
	IsProvider(ctx context.Context, userID string) (bool, error)
	AddProvider(ctx context.Context, userID string) error
}

// IIdentityVerifier is the third-party sign-in boundary.
type IIdentityVerifier interface {
	AuthCodeURL(state string) string
	Verify(ctx context.Context, code string) (domain.Profile, error)
}

type ITokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself, the supervisor restarts it.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker for logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForUser(userID string) []EventSink
	Subscribe(userID, sessionID string, sink EventSink)
	Unsubscribe(userID, sessionID string)
}
