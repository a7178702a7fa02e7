package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/auth"
	"market-lab/contract"
	"market-lab/domain"
	"market-lab/domain/event"
	"market-lab/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type IMessageService interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	MarkRead(ctx context.Context, cmd domain.MarkReadCommand) error
	ListMessages(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error)
}

type MessageService struct {
	log           *slog.Logger
	conversations IConversationService
	messages      contract.IMessageRepository
	events        chan<- event.DomainEvent
	now           func() time.Time
}

func NewMessageService(log *slog.Logger, conversations IConversationService,
	messages contract.IMessageRepository, events chan<- event.DomainEvent) *MessageService {
	return &MessageService{
		log:           log,
		conversations: conversations,
		messages:      messages,
		events:        events,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SendMessage appends a new unread message to the conversation.
// Participantship is checked before the content so that outsiders learn nothing.
func (s *MessageService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	// 1. Shape of the request
	if cmd.ConversationID == uuid.Nil || cmd.SenderID == "" || cmd.ReceiverID == "" {
		return domain.Message{}, fmt.Errorf("%w: conversation, sender and receiver are required", errors.ErrInvalidMessage)
	}

	// 2. Both ends must belong to the conversation
	conversation, err := s.conversations.AssertParticipants(ctx, cmd.ConversationID, cmd.SenderID, cmd.ReceiverID)
	if err != nil {
		return domain.Message{}, err
	}

	// 3. Content, stored verbatim but never blank
	if cmd.SenderID == cmd.ReceiverID {
		return domain.Message{}, fmt.Errorf("%w: sender and receiver must differ", errors.ErrInvalidMessage)
	}
	trimmed := cmd
	trimmed.Content = strings.TrimSpace(cmd.Content)
	if err := auth.ValidateStruct(trimmed, errors.ErrInvalidMessage); err != nil {
		return domain.Message{}, err
	}

	message := domain.Message{
		ID:          uuid.New(),
		SenderID:    cmd.SenderID,
		ReceiverID:  cmd.ReceiverID,
		Content:     cmd.Content,
		Attachments: cmd.Attachments,
		Read:        false,
		CreatedAt:   s.now(),
	}

	// 4. Atomic append and tail update
	if _, err := s.messages.Append(ctx, conversation.ID, message); err != nil {
		return domain.Message{}, err
	}

	publish(s.log, s.events, event.MessageSent{
		ConversationID: conversation.ID,
		Participants:   conversation.Participants,
		Message:        message,
	})
	return message, nil
}

// MarkRead flags the message as read. Only its receiver may do so,
// and a second call is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, cmd domain.MarkReadCommand) error {
	if err := auth.ValidateStruct(cmd, errors.ErrInvalidMessage); err != nil {
		return err
	}
	message, err := s.messages.Get(ctx, cmd.MessageID)
	if err != nil {
		return err
	}
	if !message.CanBeReadBy(cmd.ReaderID) {
		return fmt.Errorf("%w: only the receiver can mark message %s as read", errors.ErrForbidden, cmd.MessageID)
	}
	if message.Read {
		return nil
	}

	changed, err := s.messages.MarkRead(ctx, cmd.MessageID)
	if err != nil {
		return err
	}
	if changed {
		publish(s.log, s.events, event.MessageRead{
			MessageID: message.ID,
			SenderID:  message.SenderID,
			ReaderID:  cmd.ReaderID,
			At:        s.now(),
		})
	}
	return nil
}

// ListMessages returns the conversation history in append order.
func (s *MessageService) ListMessages(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error) {
	if err := auth.ValidateStruct(cmd, errors.ErrInvalidParticipants); err != nil {
		return nil, err
	}
	conversation, err := s.conversations.AssertParticipants(ctx, cmd.ConversationID, cmd.ReaderID)
	if err != nil {
		return nil, err
	}
	if len(conversation.MessageIDs) == 0 {
		return []domain.Message{}, nil
	}
	return s.messages.GetMany(ctx, conversation.MessageIDs)
}
