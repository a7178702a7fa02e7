package mongostore

import (
	"context"
	"log/slog"
	"market-lab/domain"
	"market-lab/domain/hire"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "market.collection"

func toDoc(t testing.TB, v any) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func newStore(mt *mtest.T) *Store {
	return NewStore(mt.DB, logs.GetLoggerFromLevel(slog.LevelDebug))
}

func duplicateKey() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error",
	})
}

func conversationDoc(t testing.TB, messageIDs ...uuid.UUID) (domain.Conversation, bson.D) {
	participants, err := domain.NewParticipantSet("alice", "bob")
	require.NoError(t, err)
	conversation := domain.NewConversation(participants, time.Now().UTC().Truncate(time.Millisecond))
	for _, id := range messageIDs {
		conversation.Append(id)
	}
	return conversation, toDoc(t, record.FromConversation(conversation))
}

func hireDoc(t testing.TB, status hire.Status) (hire.HireRequest, bson.D) {
	request, err := hire.New("client", "designer",
		hire.Requirements{Title: "Logo", Budget: 300}, time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, err)
	request.Status = status
	return request, toDoc(t, record.FromHireRequest(request))
}

func TestConversationRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("should return the upserted conversation", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		expected, doc := conversationDoc(mt)

		// Given the server answers the upsert with the stored document
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		// When the conversation is requested
		conversation, err := store.Conversations.GetOrCreate(context.Background(), expected.Participants)

		// Then the stored conversation is returned with an empty history
		req.NoError(err)
		req.Equal(expected.ID, conversation.ID)
		req.Equal(expected.Participants, conversation.Participants)
		req.Empty(conversation.MessageIDs)
		req.Nil(conversation.LastMessageID)
	})

	mt.Run("should read the winner after a duplicate key race", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		winner, doc := conversationDoc(mt)

		// Given a concurrent creator already inserted the same participant key
		mt.AddMockResponses(
			duplicateKey(),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc),
		)

		// When the conversation is requested
		conversation, err := store.Conversations.GetOrCreate(context.Background(), winner.Participants)

		// Then the winner's conversation is returned
		req.NoError(err)
		req.Equal(winner.ID, conversation.ID)
	})

	mt.Run("should report a missing conversation as not found", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.Conversations.Get(context.Background(), uuid.New())

		req.ErrorIs(err, errors.ErrNotFound)
	})

	mt.Run("should list the inbox of a participant", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		first, firstDoc := conversationDoc(mt)
		second, secondDoc := conversationDoc(mt, uuid.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, firstDoc, secondDoc))

		conversations, err := store.Conversations.ListByParticipant(context.Background(), "alice")

		req.NoError(err)
		req.Len(conversations, 2)
		req.Equal(first.ID, conversations[0].ID)
		req.Equal(second.ID, conversations[1].ID)
		req.Equal(second.LastMessageID, conversations[1].LastMessageID)
	})

	mt.Run("should flag an unreachable server as unavailable", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 91, Name: "ShutdownInProgress", Message: "shutting down",
		}))

		_, err := store.Conversations.Get(context.Background(), uuid.New())

		req.ErrorIs(err, errors.ErrStorageUnavailable)
	})
}

func TestMessageRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("should append and move the tail", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Content: "hi", CreatedAt: time.Now().UTC()}
		conversation, doc := conversationDoc(mt, message.ID)

		// Given the insert and the conversation update both succeed
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}),
		)

		// When a message is appended
		updated, err := store.Messages.Append(context.Background(), conversation.ID, message)

		// Then the conversation tail is the new message
		req.NoError(err)
		req.Equal([]uuid.UUID{message.ID}, updated.MessageIDs)
		req.NotNil(updated.LastMessageID)
		req.Equal(message.ID, *updated.LastMessageID)
	})

	mt.Run("should reject an append to an unknown conversation", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Content: "hi"}

		// Given the conversation update matches nothing
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		// When a message is appended
		_, err := store.Messages.Append(context.Background(), uuid.New(), message)

		// Then the conversation is reported missing
		req.ErrorIs(err, errors.ErrNotFound)
	})

	mt.Run("should return messages in the requested order", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		first := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Content: "hi"}
		second := domain.Message{ID: uuid.New(), SenderID: "bob", ReceiverID: "alice", Content: "hello"}

		// Given the server returns them out of order
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(mt, record.FromMessage(second)),
			toDoc(mt, record.FromMessage(first)),
		))

		messages, err := store.Messages.GetMany(context.Background(), []uuid.UUID{first.ID, second.ID})

		req.NoError(err)
		req.Len(messages, 2)
		req.Equal("hi", messages[0].Content)
		req.Equal("hello", messages[1].Content)
	})

	mt.Run("should fail when a message id is dangling", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.Messages.GetMany(context.Background(), []uuid.UUID{uuid.New()})

		req.ErrorIs(err, errors.ErrNotFound)
	})

	mt.Run("should mark an unread message once", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Content: "hi", Read: true}

		// Given the first update matches and the second finds it already read
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt, record.FromMessage(message))),
		)

		// When it is marked twice
		changed, err := store.Messages.MarkRead(context.Background(), message.ID)
		req.NoError(err)
		req.True(changed)

		changed, err = store.Messages.MarkRead(context.Background(), message.ID)

		// Then only the first call changed it
		req.NoError(err)
		req.False(changed)
	})

	mt.Run("should report marking a missing message as not found", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := store.Messages.MarkRead(context.Background(), uuid.New())

		req.ErrorIs(err, errors.ErrNotFound)
	})
}

func TestHireRequestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("should swap the status when it still matches", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		accepted, doc := hireDoc(mt, hire.StatusAccepted)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		updated, err := store.HireRequests.CompareAndSwapStatus(context.Background(), accepted.ID,
			hire.StatusPending, hire.StatusAccepted, time.Now().UTC())

		req.NoError(err)
		req.Equal(hire.StatusAccepted, updated.Status)
		req.Equal("Logo", updated.Requirements.Title)
	})

	mt.Run("should report a moved status as conflicting", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		declined, doc := hireDoc(mt, hire.StatusDeclined)

		// Given another actor already declined the request
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc),
		)

		// When the stale transition is attempted
		_, err := store.HireRequests.CompareAndSwapStatus(context.Background(), declined.ID,
			hire.StatusPending, hire.StatusAccepted, time.Now().UTC())

		// Then it conflicts
		req.ErrorIs(err, errors.ErrConflictingTransition)
	})

	mt.Run("should report a missing request as not found", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := store.HireRequests.CompareAndSwapStatus(context.Background(), uuid.New(),
			hire.StatusPending, hire.StatusAccepted, time.Now().UTC())

		req.ErrorIs(err, errors.ErrNotFound)
	})

	mt.Run("should create and list requests", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		request, doc := hireDoc(mt, hire.StatusPending)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc),
		)

		req.NoError(store.HireRequests.Create(context.Background(), request))
		requests, err := store.HireRequests.ListByParticipant(context.Background(), "designer")

		req.NoError(err)
		req.Len(requests, 1)
		req.Equal(request.ID, requests[0].ID)
		req.Equal(hire.StatusPending, requests[0].Status)
	})
}

func TestProfileRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("should keep the stored profile on later logins", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		stored := domain.Profile{UserID: "google-1", Email: "a@b.c", AddressLine: "1 Main St", CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(mt, record.FromProfile(stored))}))

		profile, err := store.Profiles.FindOrCreate(context.Background(), domain.Profile{UserID: "google-1", Email: "a@b.c"})

		req.NoError(err)
		req.Equal("1 Main St", profile.AddressLine)
		req.False(profile.NeedsOnboarding())
	})

	mt.Run("should answer roster membership", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt, record.Provider{UserID: "designer", CreatedAt: time.Now().UTC()})),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		isProvider, err := store.Profiles.IsProvider(context.Background(), "designer")
		req.NoError(err)
		req.True(isProvider)

		isProvider, err = store.Profiles.IsProvider(context.Background(), "client")
		req.NoError(err)
		req.False(isProvider)
	})

	mt.Run("should add a provider idempotently", func(mt *mtest.T) {
		req := require.New(mt)
		store := newStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
		)

		req.NoError(store.Profiles.AddProvider(context.Background(), "designer"))
		req.NoError(store.Profiles.AddProvider(context.Background(), "designer"))
	})
}
