package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups a fixed set of participants and the ordered ids of
// their messages. LastMessageID is nil exactly when MessageIDs is empty.
type Conversation struct {
	ID            uuid.UUID
	Participants  ParticipantSet
	MessageIDs    []uuid.UUID
	LastMessageID *uuid.UUID
	CreatedAt     time.Time
}

func NewConversation(participants ParticipantSet, at time.Time) Conversation {
	return Conversation{
		ID:           uuid.New(),
		Participants: participants,
		MessageIDs:   []uuid.UUID{},
		CreatedAt:    at,
	}
}

// Append records messageID as the new tail.
func (c *Conversation) Append(messageID uuid.UUID) {
	c.MessageIDs = append(c.MessageIDs, messageID)
	c.LastMessageID = &messageID
}

func (c Conversation) HasParticipant(userID string) bool {
	return c.Participants.Contains(userID)
}
