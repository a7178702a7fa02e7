package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/record"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MessageRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func (r *MessageRepository) Append(ctx context.Context, conversationID uuid.UUID, message domain.Message) (domain.Conversation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Conversation{}, wrap(err, "append")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, content, attachments, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		message.ID.String(), message.SenderID, message.ReceiverID, message.Content,
		stringArray(message.Attachments), message.Read, message.CreatedAt)
	if err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("message %s", message.ID))
	}

	var row conversationRow
	err = tx.GetContext(ctx, &row, `
		UPDATE conversations
		SET message_ids = array_append(message_ids, $1), last_message_id = $1
		WHERE id = $2
		RETURNING `+conversationColumns,
		message.ID.String(), conversationID.String())
	if err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", conversationID))
	}

	if err := tx.Commit(); err != nil {
		return domain.Conversation{}, wrap(err, "append")
	}
	return row.toDomain()
}

func (r *MessageRepository) Get(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id.String())
	if err != nil {
		return domain.Message{}, wrap(err, fmt.Sprintf("message %s", id))
	}
	return row.toDomain()
}

// GetMany returns the messages in the order of ids.
func (r *MessageRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Message, error) {
	if len(ids) == 0 {
		return []domain.Message{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+messageColumns+` FROM messages WHERE id IN (?)`, record.IDStrings(ids))
	if err != nil {
		return nil, wrap(err, "messages")
	}

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, wrap(err, "messages")
	}

	byID := make(map[string]messageRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id.String()]
		if !ok {
			return nil, fmt.Errorf("%w: message %s", errors.ErrNotFound, id)
		}
		message, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 AND NOT read`, id.String())
	if err != nil {
		return false, wrap(err, fmt.Sprintf("message %s", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap(err, fmt.Sprintf("message %s", id))
	}
	if n == 1 {
		return true, nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
