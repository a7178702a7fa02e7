package domain

import (
	"github.com/google/uuid"
)

type GetOrCreateConversationCommand struct {
	CallerID       string   `validate:"required"`
	ParticipantIDs []string `validate:"required"`
}

type SendMessageCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	SenderID       string    `validate:"required"`
	ReceiverID     string    `validate:"required,nefield=SenderID"`
	Content        string    `validate:"required"`
	Attachments    []string  `validate:"omitempty,dive,required"`
}

type MarkReadCommand struct {
	MessageID uuid.UUID `validate:"required"`
	ReaderID  string    `validate:"required"`
}

type ListMessagesCommand struct {
	ConversationID uuid.UUID `validate:"required"`
	ReaderID       string    `validate:"required"`
}
