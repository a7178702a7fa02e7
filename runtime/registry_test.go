package runtime

import (
	"context"
	"market-lab/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_User_One_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sink := Sink{name: "phone"}

	// Given no user is connected
	req.Zero(registry.ConnectedUsers())

	// When a user opens a stream
	registry.Subscribe(userID, "s1", sink)

	// Then
	req.Equal(1, registry.ConnectedUsers())
	req.Len(registry.GetSinksForUser(userID), 1)
	req.Contains(registry.GetSinksForUser(userID), sink)
}

func TestRegistry_Subscribe_One_User_Multiple_Sessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	phone := Sink{name: "phone"}
	laptop := Sink{name: "laptop"}

	// When the same user connects twice
	registry.Subscribe(userID, "s1", phone)
	registry.Subscribe(userID, "s2", laptop)

	// Then both sessions receive events
	req.Equal(1, registry.ConnectedUsers())
	req.ElementsMatch([]any{phone, laptop}, toAny(registry.GetSinksForUser(userID)))
}

func TestRegistry_UnSubscribe_Last_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()

	// Given a user subscribed once
	registry.Subscribe(userID, "s1", Sink{})

	// When the stream closes
	registry.Unsubscribe(userID, "s1")

	// Then no user is left
	req.Zero(registry.ConnectedUsers())
	req.Nil(registry.GetSinksForUser(userID))
}

func TestRegistry_UnSubscribe_Keeps_Other_Sessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	laptop := Sink{name: "laptop"}

	registry.Subscribe(userID, "s1", Sink{name: "phone"})
	registry.Subscribe(userID, "s2", laptop)

	// When one session closes
	registry.Unsubscribe(userID, "s1")

	// Then only the other one is left
	req.Len(registry.GetSinksForUser(userID), 1)
	req.Contains(registry.GetSinksForUser(userID), laptop)

	// And unknown sessions are ignored
	registry.Unsubscribe("nobody", "s9")
	req.Equal(1, registry.ConnectedUsers())
}

func toAny[T any](values []T) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
