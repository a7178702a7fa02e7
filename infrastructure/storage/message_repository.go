package storage

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/infrastructure/record"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *keyedMutex
}

// Append persists message and moves the conversation tail in one transaction.
// Appends to one conversation are serialized by its lock, so the stored order
// is the order in which callers acquired it.
func (r *MessageRepository) Append(ctx context.Context, conversationID uuid.UUID, message domain.Message) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	unlock := r.locks.Lock(string(conversationKey(conversationID)))
	defer unlock()

	var conversation domain.Conversation
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		conversation, err = loadConversation(txn, conversationID)
		if err != nil {
			return err
		}
		if err := putRecord(txn, messageKey(message.ID), record.FromMessage(message)); err != nil {
			return err
		}
		conversation.Append(message.ID)
		return putRecord(txn, conversationKey(conversationID), record.FromConversation(conversation))
	})
	if err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", conversationID))
	}
	r.log.Debug("Message appended",
		"conversation_id", conversationID,
		"message_id", message.ID,
		"position", len(conversation.MessageIDs))
	return conversation, nil
}

func (r *MessageRepository) Get(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = loadMessage(txn, id)
		return err
	})
	if err != nil {
		return domain.Message{}, wrap(err, fmt.Sprintf("message %s", id))
	}
	return message, nil
}

// GetMany returns the messages in the order of ids.
func (r *MessageRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			message, err := loadMessage(txn, id)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "messages")
	}
	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	unlock := r.locks.Lock(string(messageKey(id)))
	defer unlock()

	changed := false
	err := r.db.Update(func(txn *badger.Txn) error {
		var m record.Message
		if err := getRecord(txn, messageKey(id), &m); err != nil {
			return err
		}
		if m.Read {
			return nil
		}
		m.Read = true
		changed = true
		return putRecord(txn, messageKey(id), m)
	})
	if err != nil {
		return false, wrap(err, fmt.Sprintf("message %s", id))
	}
	return changed, nil
}

func loadMessage(txn *badger.Txn, id uuid.UUID) (domain.Message, error) {
	var r record.Message
	if err := getRecord(txn, messageKey(id), &r); err != nil {
		return domain.Message{}, err
	}
	return record.ToMessage(r)
}
