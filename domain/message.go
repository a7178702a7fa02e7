// Package domain contains core concepts of the marketplace.
// This file defines direct messages and their read state.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single direct message. It does not know its conversation,
// the conversation references it by id.
type Message struct {
	ID          uuid.UUID
	SenderID    string
	ReceiverID  string
	Content     string
	Attachments []string
	Read        bool
	CreatedAt   time.Time
}

// CanBeReadBy reports whether userID is allowed to flag the message as read.
func (m Message) CanBeReadBy(userID string) bool {
	return m.ReceiverID == userID
}

// IsVisibleTo reports whether userID took part in the exchange.
func (m Message) IsVisibleTo(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}
