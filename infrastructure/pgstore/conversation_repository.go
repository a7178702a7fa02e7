package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ConversationRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// GetOrCreate relies on the unique participant_key: a losing insert is a
// no-op and the select returns the row that won.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, participants domain.ParticipantSet) (domain.Conversation, error) {
	candidate := domain.NewConversation(participants, time.Now().UTC())
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, participant_key, participants, message_ids, created_at)
		VALUES ($1, $2, $3, '{}', $4)
		ON CONFLICT (participant_key) DO NOTHING`,
		candidate.ID.String(), participants.Key(), stringArray(participants), candidate.CreatedAt)
	if err != nil {
		return domain.Conversation{}, wrap(err, "conversation")
	}
	if n, _ := res.RowsAffected(); n == 1 {
		r.log.Debug("Conversation created", "conversation_id", candidate.ID)
	}

	var row conversationRow
	err = r.db.GetContext(ctx, &row,
		`SELECT `+conversationColumns+` FROM conversations WHERE participant_key = $1`, participants.Key())
	if err != nil {
		return domain.Conversation{}, wrap(err, "conversation")
	}
	return row.toDomain()
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	var row conversationRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id.String())
	if err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", id))
	}
	return row.toDomain()
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var rows []conversationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+conversationColumns+` FROM conversations WHERE $1 = ANY(participants) ORDER BY created_at`, userID)
	if err != nil {
		return nil, wrap(err, "inbox")
	}
	conversations := make([]domain.Conversation, 0, len(rows))
	for _, row := range rows {
		conversation, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	return conversations, nil
}
