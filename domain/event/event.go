package event

import (
	"market-lab/domain"
	"market-lab/domain/hire"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is anything worth pushing to connected users.
// Recipients lists the user ids that should receive it.
type DomainEvent interface {
	Recipients() []string
}

type MessageSent struct {
	ConversationID uuid.UUID
	Participants   domain.ParticipantSet
	Message        domain.Message
}

func (m MessageSent) Recipients() []string { return m.Participants }

type MessageRead struct {
	MessageID uuid.UUID
	SenderID  string
	ReaderID  string
	At        time.Time
}

func (m MessageRead) Recipients() []string { return []string{m.SenderID, m.ReaderID} }

type HireRequestChanged struct {
	Request  hire.HireRequest
	Previous hire.Status
	ActorID  string
}

func (h HireRequestChanged) Recipients() []string {
	return []string{h.Request.ClientID, h.Request.DesignerID}
}

const (
	NameMessageSent        = "message_sent"
	NameMessageRead        = "message_read"
	NameHireRequestChanged = "hire_request_changed"
)

func Name(e DomainEvent) string {
	switch e.(type) {
	case MessageSent:
		return NameMessageSent
	case MessageRead:
		return NameMessageRead
	case HireRequestChanged:
		return NameHireRequestChanged
	default:
		return "unknown"
	}
}
