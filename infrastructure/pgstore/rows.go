package pgstore

import (
	"database/sql"
	"market-lab/domain"
	"market-lab/domain/hire"
	"market-lab/infrastructure/record"
	"time"

	"github.com/lib/pq"
)

const (
	conversationColumns = `id, participant_key, participants, message_ids, last_message_id, created_at`
	messageColumns      = `id, sender_id, receiver_id, content, attachments, read, created_at`
	hireColumns         = `id, client_id, designer_id, title, description, budget, timeline, attachments, status, created_at, updated_at`
	profileColumns      = `user_id, email, display_name, address_line, created_at`
)

type conversationRow struct {
	ID             string         `db:"id"`
	ParticipantKey string         `db:"participant_key"`
	Participants   pq.StringArray `db:"participants"`
	MessageIDs     pq.StringArray `db:"message_ids"`
	LastMessageID  sql.NullString `db:"last_message_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r conversationRow) toDomain() (domain.Conversation, error) {
	return record.ToConversation(record.Conversation{
		ID:             r.ID,
		ParticipantKey: r.ParticipantKey,
		Participants:   r.Participants,
		MessageIDs:     r.MessageIDs,
		CreatedAt:      r.CreatedAt,
	})
}

type messageRow struct {
	ID          string         `db:"id"`
	SenderID    string         `db:"sender_id"`
	ReceiverID  string         `db:"receiver_id"`
	Content     string         `db:"content"`
	Attachments pq.StringArray `db:"attachments"`
	Read        bool           `db:"read"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r messageRow) toDomain() (domain.Message, error) {
	return record.ToMessage(record.Message{
		ID:          r.ID,
		SenderID:    r.SenderID,
		ReceiverID:  r.ReceiverID,
		Content:     r.Content,
		Attachments: nilIfEmpty(r.Attachments),
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
	})
}

type hireRow struct {
	ID          string         `db:"id"`
	ClientID    string         `db:"client_id"`
	DesignerID  string         `db:"designer_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Budget      float64        `db:"budget"`
	Timeline    string         `db:"timeline"`
	Attachments pq.StringArray `db:"attachments"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r hireRow) toDomain() (hire.HireRequest, error) {
	return record.ToHireRequest(record.HireRequest{
		ID:         r.ID,
		ClientID:   r.ClientID,
		DesignerID: r.DesignerID,
		Requirements: record.Requirements{
			Title:       r.Title,
			Description: r.Description,
			Budget:      r.Budget,
			Timeline:    r.Timeline,
			Attachments: nilIfEmpty(r.Attachments),
		},
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	})
}

type profileRow struct {
	UserID      string    `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	AddressLine string    `db:"address_line"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r profileRow) toDomain() domain.Profile {
	return record.ToProfile(record.Profile(r))
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

// stringArray never sends NULL, the columns are NOT NULL.
func stringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return values
}
