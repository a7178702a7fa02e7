package server

import (
	"context"
	"log/slog"
	"market-lab/contract"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/grpc/api"
	"market-lab/services"
	"market-lab/sink"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/grpc"
)

type ConversationServer struct {
	log                  *slog.Logger
	conversationService  services.IConversationService
	messageService       services.IMessageService
	registry             contract.IRegistry
	subscriberBufferSize int
}

func NewConversationServer(log *slog.Logger,
	conversationService services.IConversationService,
	messageService services.IMessageService,
	registry contract.IRegistry,
	subscriberBufferSize int) *ConversationServer {
	return &ConversationServer{
		log:                  log,
		conversationService:  conversationService,
		messageService:       messageService,
		registry:             registry,
		subscriberBufferSize: subscriberBufferSize,
	}
}

func (s *ConversationServer) GetOrCreateConversation(ctx context.Context, req *api.GetOrCreateConversationRequest) (*api.ConversationResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := s.conversationService.GetOrCreateConversation(ctx, domain.GetOrCreateConversationCommand{
		CallerID:       userID,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ConversationResponse{Conversation: toConversation(conversation)}, nil
}

// SendMessage always sends as the authenticated caller.
func (s *ConversationServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.MessageResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID(req.ConversationID, errors.ErrInvalidMessage)
	if err != nil {
		return nil, grpcError(err)
	}
	message, err := s.messageService.SendMessage(ctx, domain.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       userID,
		ReceiverID:     req.ReceiverID,
		Content:        req.Content,
		Attachments:    req.Attachments,
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.MessageResponse{Message: toMessage(message)}, nil
}

func (s *ConversationServer) MarkRead(ctx context.Context, req *api.MarkReadRequest) (*api.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	messageID, err := parseID(req.MessageID, errors.ErrInvalidMessage)
	if err != nil {
		return nil, grpcError(err)
	}
	if err := s.messageService.MarkRead(ctx, domain.MarkReadCommand{MessageID: messageID, ReaderID: userID}); err != nil {
		return nil, grpcError(err)
	}
	return &api.Empty{}, nil
}

func (s *ConversationServer) ListConversations(ctx context.Context, _ *api.ListConversationsRequest) (*api.ListConversationsResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	conversations, err := s.conversationService.ListConversations(ctx, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ListConversationsResponse{
		Conversations: lo.Map(conversations, func(c domain.Conversation, _ int) api.Conversation { return toConversation(c) }),
	}, nil
}

func (s *ConversationServer) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	conversationID, err := parseID(req.ConversationID, errors.ErrInvalidRequest)
	if err != nil {
		return nil, grpcError(err)
	}
	messages, err := s.messageService.ListMessages(ctx, domain.ListMessagesCommand{
		ConversationID: conversationID,
		ReaderID:       userID,
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ListMessagesResponse{
		Messages: lo.Map(messages, func(m domain.Message, _ int) api.Message { return toMessage(m) }),
	}, nil
}

// Subscribe keeps a stream open and pushes every event addressed to the
// caller. It blocks until the client leaves and always unregisters its sink.
func (s *ConversationServer) Subscribe(_ *api.SubscribeRequest, stream grpc.ServerStreamingServer[api.Event]) error {
	userID, err := callerID(stream.Context())
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	grpcSink := sink.NewGrpcSink(s.log, s.subscriberBufferSize)
	s.registry.Subscribe(userID, sessionID, grpcSink)
	defer s.registry.Unsubscribe(userID, sessionID)
	s.log.Debug("Subscriber connected", "user_id", userID, "session_id", sessionID)

	for {
		select {
		case <-stream.Context().Done():
			s.log.Debug("Subscriber disconnected", "user_id", userID, "session_id", sessionID,
				"dropped", grpcSink.Dropped())
			return nil
		case evt := <-grpcSink.Events:
			wire, ok := toEvent(evt)
			if !ok {
				continue
			}
			if err := stream.Send(&wire); err != nil {
				s.log.Error("failed to push event to stream",
					"user_id", userID,
					"session_id", sessionID,
					"error", err)
				return err
			}
		}
	}
}
