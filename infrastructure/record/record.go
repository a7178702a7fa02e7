// Package record holds the persisted shape of every aggregate.
// The same bson layout is used as Mongo documents and as badger values.
package record

import (
	"fmt"
	"market-lab/domain"
	"market-lab/domain/hire"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

type Conversation struct {
	ID             string    `bson:"_id"`
	ParticipantKey string    `bson:"participant_key"`
	Participants   []string  `bson:"participants"`
	MessageIDs     []string  `bson:"message_ids"`
	LastMessageID  *string   `bson:"last_message_id,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

type Message struct {
	ID          string    `bson:"_id"`
	SenderID    string    `bson:"sender_id"`
	ReceiverID  string    `bson:"receiver_id"`
	Content     string    `bson:"content"`
	Attachments []string  `bson:"attachments,omitempty"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"created_at"`
}

type Requirements struct {
	Title       string   `bson:"title"`
	Description string   `bson:"description,omitempty"`
	Budget      float64  `bson:"budget"`
	Timeline    string   `bson:"timeline,omitempty"`
	Attachments []string `bson:"attachments,omitempty"`
}

type HireRequest struct {
	ID           string       `bson:"_id"`
	ClientID     string       `bson:"client_id"`
	DesignerID   string       `bson:"designer_id"`
	Requirements Requirements `bson:"requirements"`
	Status       string       `bson:"status"`
	CreatedAt    time.Time    `bson:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at"`
}

type Profile struct {
	UserID      string    `bson:"_id"`
	Email       string    `bson:"email,omitempty"`
	DisplayName string    `bson:"display_name,omitempty"`
	AddressLine string    `bson:"address_line"`
	CreatedAt   time.Time `bson:"created_at"`
}

type Provider struct {
	UserID    string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func FromConversation(c domain.Conversation) Conversation {
	r := Conversation{
		ID:             c.ID.String(),
		ParticipantKey: c.Participants.Key(),
		Participants:   c.Participants,
		MessageIDs:     lo.Map(c.MessageIDs, func(id uuid.UUID, _ int) string { return id.String() }),
		CreatedAt:      c.CreatedAt,
	}
	if c.LastMessageID != nil {
		r.LastMessageID = lo.ToPtr(c.LastMessageID.String())
	}
	return r
}

func ToConversation(r Conversation) (domain.Conversation, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("conversation id %q: %w", r.ID, err)
	}
	messageIDs, err := ParseIDs(r.MessageIDs)
	if err != nil {
		return domain.Conversation{}, err
	}
	c := domain.Conversation{
		ID:           id,
		Participants: domain.ParticipantSet(r.Participants),
		MessageIDs:   messageIDs,
		CreatedAt:    r.CreatedAt,
	}
	if len(messageIDs) > 0 {
		c.LastMessageID = lo.ToPtr(messageIDs[len(messageIDs)-1])
	}
	return c, nil
}

func FromMessage(m domain.Message) Message {
	return Message{
		ID:          m.ID.String(),
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		Attachments: m.Attachments,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

func ToMessage(r Message) (domain.Message, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message id %q: %w", r.ID, err)
	}
	return domain.Message{
		ID:          id,
		SenderID:    r.SenderID,
		ReceiverID:  r.ReceiverID,
		Content:     r.Content,
		Attachments: r.Attachments,
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func FromHireRequest(h hire.HireRequest) HireRequest {
	return HireRequest{
		ID:         h.ID.String(),
		ClientID:   h.ClientID,
		DesignerID: h.DesignerID,
		Requirements: Requirements{
			Title:       h.Requirements.Title,
			Description: h.Requirements.Description,
			Budget:      h.Requirements.Budget,
			Timeline:    h.Requirements.Timeline,
			Attachments: h.Requirements.Attachments,
		},
		Status:    string(h.Status),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func ToHireRequest(r HireRequest) (hire.HireRequest, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return hire.HireRequest{}, fmt.Errorf("hire request id %q: %w", r.ID, err)
	}
	status, err := hire.ParseStatus(r.Status)
	if err != nil {
		return hire.HireRequest{}, err
	}
	return hire.HireRequest{
		ID:         id,
		ClientID:   r.ClientID,
		DesignerID: r.DesignerID,
		Requirements: hire.Requirements{
			Title:       r.Requirements.Title,
			Description: r.Requirements.Description,
			Budget:      r.Requirements.Budget,
			Timeline:    r.Requirements.Timeline,
			Attachments: r.Requirements.Attachments,
		},
		Status:    status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func FromProfile(p domain.Profile) Profile {
	return Profile{
		UserID:      p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AddressLine: p.AddressLine,
		CreatedAt:   p.CreatedAt,
	}
}

func ToProfile(r Profile) domain.Profile {
	return domain.Profile{
		UserID:      r.UserID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		AddressLine: r.AddressLine,
		CreatedAt:   r.CreatedAt,
	}
}

func ParseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func IDStrings(ids []uuid.UUID) []string {
	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
}

// Encode and Decode are the badger value codec.
func Encode(v any) ([]byte, error) {
	return bson.Marshal(v)
}

func Decode(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
