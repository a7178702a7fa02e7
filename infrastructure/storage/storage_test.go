package storage

import (
	"context"
	"log/slog"
	"market-lab/domain"
	"market-lab/domain/hire"
	"market-lab/errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// SetupTestDB initializes a temporary Badger instance for testing
func SetupTestDB(t *testing.T) (*Store, func()) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	return NewStore(db, logs.GetLoggerFromLevel(slog.LevelDebug)), func() {
		db.Close()
	}
}

func participants(t *testing.T, ids ...string) domain.ParticipantSet {
	t.Helper()
	set, err := domain.NewParticipantSet(ids...)
	require.NoError(t, err)
	return set
}

func newMessage(sender, receiver, content string) domain.Message {
	return domain.Message{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestConversationRepository_GetOrCreate_Idempotent(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Given a conversation opened by alice
	first, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob"))
	req.NoError(err)
	req.Empty(first.MessageIDs)
	req.Nil(first.LastMessageID)

	// When bob opens it with the ids reversed
	second, err := store.Conversations.GetOrCreate(ctx, participants(t, "bob", "alice"))
	req.NoError(err)

	// Then the same conversation comes back
	req.Equal(first.ID, second.ID)

	// And each participant sees exactly one conversation
	inbox, err := store.Conversations.ListByParticipant(ctx, "alice")
	req.NoError(err)
	req.Len(inbox, 1)
}

func TestConversationRepository_GetOrCreate_Concurrent(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	const callers = 20
	ids := make([]uuid.UUID, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob", "carol"))
			req.NoError(err)
			ids[i] = c.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		req.Equal(ids[0], id)
	}
	req.Zero(store.Conversations.locks.size())
}

func TestConversationRepository_Get_NotFound(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	_, err := store.Conversations.Get(context.Background(), uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestConversationRepository_ListByParticipant_PrefixCollision(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Conversations.GetOrCreate(ctx, participants(t, "a", "z"))
	req.NoError(err)
	_, err = store.Conversations.GetOrCreate(ctx, participants(t, "a:b", "z"))
	req.NoError(err)

	inbox, err := store.Conversations.ListByParticipant(ctx, "a")
	req.NoError(err)
	req.Len(inbox, 1)
}

func TestHireRequestRepository_ListByParticipant_PrefixCollision(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Given a request between "a" and "a:x", whose index keys share a prefix
	request, err := hire.New("a", "a:x", hire.Requirements{Title: "Logo"}, time.Now().UTC())
	req.NoError(err)
	req.NoError(store.HireRequests.Create(ctx, request))

	// When each side lists its requests
	forA, err := store.HireRequests.ListByParticipant(ctx, "a")
	req.NoError(err)
	forAx, err := store.HireRequests.ListByParticipant(ctx, "a:x")
	req.NoError(err)

	// Then each sees it exactly once
	req.Len(forA, 1)
	req.Len(forAx, 1)
	req.Equal(request.ID, forA[0].ID)
}

func TestMessageRepository_Append_OrderAndTail(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	conversation, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob"))
	req.NoError(err)

	// When A sends "hi" then B sends "hello"
	hi := newMessage("alice", "bob", "hi")
	hello := newMessage("bob", "alice", "hello")
	_, err = store.Messages.Append(ctx, conversation.ID, hi)
	req.NoError(err)
	updated, err := store.Messages.Append(ctx, conversation.ID, hello)
	req.NoError(err)

	// Then messages are [hi, hello] and the tail is hello
	req.Equal([]uuid.UUID{hi.ID, hello.ID}, updated.MessageIDs)
	req.Equal(hello.ID, *updated.LastMessageID)

	stored, err := store.Conversations.Get(ctx, conversation.ID)
	req.NoError(err)
	req.Equal(updated.MessageIDs, stored.MessageIDs)

	history, err := store.Messages.GetMany(ctx, stored.MessageIDs)
	req.NoError(err)
	req.Equal("hi", history[0].Content)
	req.Equal("hello", history[1].Content)
	req.False(history[0].Read)
}

func TestMessageRepository_Append_Concurrent(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	conversation, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob"))
	req.NoError(err)

	const senders = 50
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Messages.Append(ctx, conversation.ID, newMessage("alice", "bob", "ping"))
			req.NoError(err)
		}()
	}
	wg.Wait()

	// No append is lost and the tail is the last id
	stored, err := store.Conversations.Get(ctx, conversation.ID)
	req.NoError(err)
	req.Len(stored.MessageIDs, senders)
	req.Equal(stored.MessageIDs[senders-1], *stored.LastMessageID)

	// Every referenced message exists
	messages, err := store.Messages.GetMany(ctx, stored.MessageIDs)
	req.NoError(err)
	req.Len(messages, senders)
}

func TestMessageRepository_Append_UnknownConversation(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	message := newMessage("alice", "bob", "hi")

	_, err := store.Messages.Append(ctx, uuid.New(), message)
	req.ErrorIs(err, errors.ErrNotFound)

	// Nothing leaked from the aborted transaction
	_, err = store.Messages.Get(ctx, message.ID)
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestMessageRepository_MarkRead_Idempotent(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	conversation, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob"))
	req.NoError(err)
	message := newMessage("alice", "bob", "hi")
	_, err = store.Messages.Append(ctx, conversation.ID, message)
	req.NoError(err)

	changed, err := store.Messages.MarkRead(ctx, message.ID)
	req.NoError(err)
	req.True(changed)

	changed, err = store.Messages.MarkRead(ctx, message.ID)
	req.NoError(err)
	req.False(changed)

	stored, err := store.Messages.Get(ctx, message.ID)
	req.NoError(err)
	req.True(stored.Read)

	_, err = store.Messages.MarkRead(ctx, uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func newHireRequest(t *testing.T) hire.HireRequest {
	t.Helper()
	request, err := hire.New("client-1", "designer-1", hire.Requirements{Title: "Logo", Budget: 500}, time.Now().UTC())
	require.NoError(t, err)
	return request
}

func TestHireRequestRepository_CompareAndSwap(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	request := newHireRequest(t)
	req.NoError(store.HireRequests.Create(ctx, request))

	// Given the designer accepted
	accepted, err := store.HireRequests.CompareAndSwapStatus(ctx, request.ID, hire.StatusPending, hire.StatusAccepted, time.Now().UTC())
	req.NoError(err)
	req.Equal(hire.StatusAccepted, accepted.Status)

	// When a stale decline lands based on pending
	_, err = store.HireRequests.CompareAndSwapStatus(ctx, request.ID, hire.StatusPending, hire.StatusDeclined, time.Now().UTC())

	// Then it is rejected and the stored status is untouched
	req.ErrorIs(err, errors.ErrConflictingTransition)
	stored, err := store.HireRequests.Get(ctx, request.ID)
	req.NoError(err)
	req.Equal(hire.StatusAccepted, stored.Status)
	req.Equal("Logo", stored.Requirements.Title)
}

func TestHireRequestRepository_CompareAndSwap_Race(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	request := newHireRequest(t)
	req.NoError(store.HireRequests.Create(ctx, request))

	targets := []hire.Status{hire.StatusAccepted, hire.StatusDeclined}
	results := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target hire.Status) {
			defer wg.Done()
			_, results[i] = store.HireRequests.CompareAndSwapStatus(ctx, request.ID, hire.StatusPending, target, time.Now().UTC())
		}(i, target)
	}
	wg.Wait()

	// Exactly one writer wins
	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		req.ErrorIs(err, errors.ErrConflictingTransition)
	}
	req.Equal(1, wins)
}

func TestHireRequestRepository_ListByParticipant(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	older := newHireRequest(t)
	newer, err := hire.New("client-2", "designer-1", hire.Requirements{Title: "Poster"}, older.CreatedAt.Add(time.Minute))
	req.NoError(err)
	req.NoError(store.HireRequests.Create(ctx, newer))
	req.NoError(store.HireRequests.Create(ctx, older))

	designerRequests, err := store.HireRequests.ListByParticipant(ctx, "designer-1")
	req.NoError(err)
	req.Len(designerRequests, 2)
	req.Equal(older.ID, designerRequests[0].ID)
	req.Equal(newer.ID, designerRequests[1].ID)

	clientRequests, err := store.HireRequests.ListByParticipant(ctx, "client-2")
	req.NoError(err)
	req.Len(clientRequests, 1)

	_, err = store.HireRequests.Get(ctx, uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestProfileRepository(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Given a first login
	created, err := store.Profiles.FindOrCreate(ctx, domain.Profile{UserID: "g-1", Email: "ada@example.com"})
	req.NoError(err)
	req.True(created.NeedsOnboarding())

	// When onboarding completes and the user logs in again
	_, err = store.Profiles.UpdateAddress(ctx, "g-1", "1 Main St")
	req.NoError(err)
	again, err := store.Profiles.FindOrCreate(ctx, domain.Profile{UserID: "g-1", Email: "ada@example.com"})
	req.NoError(err)

	// Then the stored address is kept
	req.Equal("1 Main St", again.AddressLine)

	_, err = store.Profiles.UpdateAddress(ctx, "nobody", "x")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestProfileRepository_Roster(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	isProvider, err := store.Profiles.IsProvider(ctx, "g-1")
	req.NoError(err)
	req.False(isProvider)

	req.NoError(store.Profiles.AddProvider(ctx, "g-1"))
	req.NoError(store.Profiles.AddProvider(ctx, "g-1"))

	isProvider, err = store.Profiles.IsProvider(ctx, "g-1")
	req.NoError(err)
	req.True(isProvider)
}

func TestRepositories_HonorCanceledContext(t *testing.T) {
	req := require.New(t)
	store, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Conversations.GetOrCreate(ctx, participants(t, "alice", "bob"))
	req.ErrorIs(err, context.Canceled)
	_, err = store.Messages.Append(ctx, uuid.New(), newMessage("alice", "bob", "hi"))
	req.ErrorIs(err, context.Canceled)
}
