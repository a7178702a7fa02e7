package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/auth"
	"market-lab/contract"
	"market-lab/domain"
	"market-lab/errors"

	"github.com/google/uuid"
)

type IConversationService interface {
	GetOrCreateConversation(ctx context.Context, cmd domain.GetOrCreateConversationCommand) (domain.Conversation, error)
	AssertParticipant(ctx context.Context, conversationID uuid.UUID, userID string) error
	AssertParticipants(ctx context.Context, conversationID uuid.UUID, userIDs ...string) (domain.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)
}

type ConversationService struct {
	log           *slog.Logger
	conversations contract.IConversationRepository
}

func NewConversationService(log *slog.Logger, conversations contract.IConversationRepository) *ConversationService {
	return &ConversationService{log: log, conversations: conversations}
}

// GetOrCreateConversation returns the single conversation of the given users,
// creating it on first contact. The caller must be one of them.
func (s *ConversationService) GetOrCreateConversation(ctx context.Context,
	cmd domain.GetOrCreateConversationCommand) (domain.Conversation, error) {
	if err := auth.ValidateStruct(cmd, errors.ErrInvalidParticipants); err != nil {
		return domain.Conversation{}, err
	}
	participants, err := domain.NewParticipantSet(cmd.ParticipantIDs...)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !participants.Contains(cmd.CallerID) {
		return domain.Conversation{}, fmt.Errorf("%w: caller %s is not a participant", errors.ErrForbidden, cmd.CallerID)
	}

	conversation, err := s.conversations.GetOrCreate(ctx, participants)
	if err != nil {
		return domain.Conversation{}, err
	}
	s.log.Debug("Conversation resolved", "conversation_id", conversation.ID, "participants", len(participants))
	return conversation, nil
}

func (s *ConversationService) AssertParticipant(ctx context.Context, conversationID uuid.UUID, userID string) error {
	_, err := s.AssertParticipants(ctx, conversationID, userID)
	return err
}

// AssertParticipants loads the conversation and fails with ErrForbidden
// as soon as one of userIDs is not part of it.
func (s *ConversationService) AssertParticipants(ctx context.Context, conversationID uuid.UUID,
	userIDs ...string) (domain.Conversation, error) {
	conversation, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return domain.Conversation{}, err
	}
	for _, userID := range userIDs {
		if !conversation.HasParticipant(userID) {
			return domain.Conversation{}, fmt.Errorf("%w: %s is not in conversation %s",
				errors.ErrForbidden, userID, conversationID)
		}
	}
	return conversation, nil
}

func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", errors.ErrInvalidParticipants)
	}
	return s.conversations.ListByParticipant(ctx, userID)
}
