package server

import (
	"context"
	"log/slog"
	"market-lab/auth"
	"market-lab/domain/event"
	"market-lab/infrastructure/grpc/api"
	"market-lab/infrastructure/grpc/client"
	"market-lab/infrastructure/storage"
	"market-lab/runtime"
	"market-lab/runtime/workers"
	"market-lab/services"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type harness struct {
	client   *client.MarketClient
	issuer   *auth.TokenIssuer
	registry *runtime.Registry
}

func (h harness) as(t *testing.T, userID string) grpc.CallOption {
	token, _, err := h.issuer.Issue(userID)
	require.NoError(t, err)
	return client.CallAs(token)
}

// setupServer wires the real services on an in-memory store behind a bufconn listener.
func setupServer(t *testing.T) harness {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	store := storage.NewStore(db, log)

	events := make(chan event.DomainEvent, 16)
	registry := runtime.NewRegistry()
	go func() { _ = workers.NewEventFanout(log, events, registry, time.Second).Run(ctx) }()

	conversationService := services.NewConversationService(log, store.Conversations)
	messageService := services.NewMessageService(log, conversationService, store.Messages, events)
	hireService := services.NewHireService(log, store.HireRequests, events)
	accountService := services.NewAccountService(log, store.Profiles, store.Profiles)
	issuer := auth.NewTokenIssuer("test-secret", "market-lab", time.Hour)

	s := New(log, issuer, 5*time.Second,
		NewConversationServer(log, conversationService, messageService, registry, 8),
		NewHireServer(log, hireService),
		NewAccountServer(log, accountService))

	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = s.Serve(lis) }()

	c, err := client.Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		s.Stop()
		cancel()
		_ = db.Close()
	})
	return harness{client: c, issuer: issuer, registry: registry}
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, status.Code(err), err.Error())
}

func TestConversationFlow(t *testing.T) {
	req := require.New(t)
	h := setupServer(t)
	ctx := context.Background()

	// Given alice opens a conversation with bob
	opened, err := h.client.Conversations.GetOrCreateConversation(ctx,
		&api.GetOrCreateConversationRequest{ParticipantIDs: []string{"bob", "alice"}}, h.as(t, "alice"))
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, opened.Conversation.Participants)
	req.Empty(opened.Conversation.MessageIDs)

	// And bob gets the same conversation back
	again, err := h.client.Conversations.GetOrCreateConversation(ctx,
		&api.GetOrCreateConversationRequest{ParticipantIDs: []string{"alice", "bob"}}, h.as(t, "bob"))
	req.NoError(err)
	req.Equal(opened.Conversation.ID, again.Conversation.ID)

	// And bob listens for live events
	streamCtx, stopStream := context.WithCancel(ctx)
	defer stopStream()
	stream, err := h.client.Conversations.Subscribe(streamCtx, &api.SubscribeRequest{}, h.as(t, "bob"))
	req.NoError(err)
	req.Eventually(func() bool { return h.registry.ConnectedUsers() == 1 }, time.Second, 10*time.Millisecond)

	// When alice sends a message
	sent, err := h.client.Conversations.SendMessage(ctx, &api.SendMessageRequest{
		ConversationID: opened.Conversation.ID,
		ReceiverID:     "bob",
		Content:        "  hi  ",
	}, h.as(t, "alice"))

	// Then it is stored unread with trimmed content
	req.NoError(err)
	req.Equal("alice", sent.Message.SenderID)
	req.Equal("  hi  ", sent.Message.Content)
	req.False(sent.Message.Read)

	// And bob receives it live
	pushed, err := stream.Recv()
	req.NoError(err)
	req.Equal(event.NameMessageSent, pushed.Type)
	req.Equal(sent.Message.ID, pushed.Message.ID)

	// And the sender cannot mark it read
	_, err = h.client.Conversations.MarkRead(ctx, &api.MarkReadRequest{MessageID: sent.Message.ID}, h.as(t, "alice"))
	requireCode(t, err, codes.PermissionDenied)

	// And the receiver can, twice
	_, err = h.client.Conversations.MarkRead(ctx, &api.MarkReadRequest{MessageID: sent.Message.ID}, h.as(t, "bob"))
	req.NoError(err)
	_, err = h.client.Conversations.MarkRead(ctx, &api.MarkReadRequest{MessageID: sent.Message.ID}, h.as(t, "bob"))
	req.NoError(err)

	// And the history shows it read
	listed, err := h.client.Conversations.ListMessages(ctx,
		&api.ListMessagesRequest{ConversationID: opened.Conversation.ID}, h.as(t, "alice"))
	req.NoError(err)
	req.Len(listed.Messages, 1)
	req.True(listed.Messages[0].Read)

	inbox, err := h.client.Conversations.ListConversations(ctx, &api.ListConversationsRequest{}, h.as(t, "bob"))
	req.NoError(err)
	req.Len(inbox.Conversations, 1)
	req.Equal(sent.Message.ID, inbox.Conversations[0].LastMessageID)
}

func TestConversationErrors(t *testing.T) {
	h := setupServer(t)
	ctx := context.Background()

	t.Run("should reject calls without a token", func(t *testing.T) {
		_, err := h.client.Conversations.ListConversations(ctx, &api.ListConversationsRequest{})
		requireCode(t, err, codes.Unauthenticated)
	})

	t.Run("should reject a single participant", func(t *testing.T) {
		_, err := h.client.Conversations.GetOrCreateConversation(ctx,
			&api.GetOrCreateConversationRequest{ParticipantIDs: []string{"alice", "alice"}}, h.as(t, "alice"))
		requireCode(t, err, codes.InvalidArgument)
	})

	t.Run("should keep outsiders out", func(t *testing.T) {
		opened, err := h.client.Conversations.GetOrCreateConversation(ctx,
			&api.GetOrCreateConversationRequest{ParticipantIDs: []string{"alice", "bob"}}, h.as(t, "alice"))
		require.NoError(t, err)

		_, err = h.client.Conversations.SendMessage(ctx, &api.SendMessageRequest{
			ConversationID: opened.Conversation.ID, ReceiverID: "bob", Content: "hello",
		}, h.as(t, "mallory"))
		requireCode(t, err, codes.PermissionDenied)
	})

	t.Run("should reject an empty message", func(t *testing.T) {
		opened, err := h.client.Conversations.GetOrCreateConversation(ctx,
			&api.GetOrCreateConversationRequest{ParticipantIDs: []string{"alice", "bob"}}, h.as(t, "alice"))
		require.NoError(t, err)

		_, err = h.client.Conversations.SendMessage(ctx, &api.SendMessageRequest{
			ConversationID: opened.Conversation.ID, ReceiverID: "bob", Content: "   ",
		}, h.as(t, "alice"))
		requireCode(t, err, codes.InvalidArgument)
	})

	t.Run("should reject a malformed conversation id", func(t *testing.T) {
		_, err := h.client.Conversations.SendMessage(ctx, &api.SendMessageRequest{
			ConversationID: "not-a-uuid", ReceiverID: "bob", Content: "hello",
		}, h.as(t, "alice"))
		requireCode(t, err, codes.InvalidArgument)
	})
}

func TestHireFlow(t *testing.T) {
	req := require.New(t)
	h := setupServer(t)
	ctx := context.Background()

	// Given a client asks a designer for a logo
	created, err := h.client.Hires.CreateHireRequest(ctx, &api.CreateHireRequestRequest{
		DesignerID: "designer", Title: "Logo", Budget: 300,
	}, h.as(t, "client"))
	req.NoError(err)
	req.Equal("pending", created.HireRequest.Status)
	req.Equal("client", created.HireRequest.ClientID)
	id := created.HireRequest.ID

	// When the client tries to accept it
	_, err = h.client.Hires.TransitionHireRequest(ctx,
		&api.TransitionHireRequestRequest{ID: id, Action: "accept"}, h.as(t, "client"))
	// Then only the designer may
	requireCode(t, err, codes.PermissionDenied)

	accepted, err := h.client.Hires.TransitionHireRequest(ctx,
		&api.TransitionHireRequestRequest{ID: id, Action: "accept"}, h.as(t, "designer"))
	req.NoError(err)
	req.Equal("accepted", accepted.HireRequest.Status)

	// And an accepted request cannot be declined
	_, err = h.client.Hires.TransitionHireRequest(ctx,
		&api.TransitionHireRequestRequest{ID: id, Action: "decline"}, h.as(t, "designer"))
	requireCode(t, err, codes.FailedPrecondition)

	completed, err := h.client.Hires.TransitionHireRequest(ctx,
		&api.TransitionHireRequestRequest{ID: id, Action: "complete"}, h.as(t, "client"))
	req.NoError(err)
	req.Equal("completed", completed.HireRequest.Status)

	// And a stranger cannot read it
	_, err = h.client.Hires.GetHireRequest(ctx, &api.GetHireRequestRequest{ID: id}, h.as(t, "stranger"))
	requireCode(t, err, codes.PermissionDenied)

	listed, err := h.client.Hires.ListHireRequests(ctx, &api.ListHireRequestsRequest{}, h.as(t, "designer"))
	req.NoError(err)
	req.Len(listed.HireRequests, 1)

	_, err = h.client.Hires.TransitionHireRequest(ctx,
		&api.TransitionHireRequestRequest{ID: id, Action: "archive"}, h.as(t, "client"))
	requireCode(t, err, codes.FailedPrecondition)
}

func TestDirectCallWithoutCaller(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	s := NewHireServer(log, nil)

	_, err := s.ListHireRequests(context.Background(), &api.ListHireRequestsRequest{})

	req.Equal(codes.Unauthenticated, status.Code(err))
}
