package storage

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ConversationRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *keyedMutex
}

// GetOrCreate resolves the participant key through the uniqueness index and
// only writes when the index has no entry yet. Index, record and inbox
// entries land in the same transaction.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, participants domain.ParticipantSet) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	indexKey := participantIndexKey(participants.Key())
	unlock := r.locks.Lock(string(indexKey))
	defer unlock()

	var conversation domain.Conversation
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		switch {
		case err == nil:
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := uuid.ParseBytes(raw)
			if err != nil {
				return fmt.Errorf("corrupted conversation index %q: %w", indexKey, err)
			}
			conversation, err = loadConversation(txn, id)
			return err
		case errors.Is(err, badger.ErrKeyNotFound):
			conversation = domain.NewConversation(participants, time.Now().UTC())
			if err := txn.Set(indexKey, []byte(conversation.ID.String())); err != nil {
				return err
			}
			for _, userID := range participants {
				if err := txn.Set(inboxKey(userID, conversation.ID), nil); err != nil {
					return err
				}
			}
			r.log.Debug("Conversation created", "conversation_id", conversation.ID)
			return putRecord(txn, conversationKey(conversation.ID), record.FromConversation(conversation))
		default:
			return err
		}
	})
	if err != nil {
		return domain.Conversation{}, wrap(err, "conversation")
	}
	return conversation, nil
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}
	var conversation domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		conversation, err = loadConversation(txn, id)
		return err
	})
	if err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", id))
	}
	return conversation, nil
}

// ListByParticipant returns the inbox of userID, oldest conversation first.
func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := inboxPrefix(userID)
	conversations := []domain.Conversation{}
	err := r.db.View(func(txn *badger.Txn) error {
		for _, key := range scanKeys(txn, prefix) {
			id, err := uuid.ParseBytes(key[len(prefix):])
			if err != nil {
				// a longer user id sharing this prefix
				continue
			}
			conversation, err := loadConversation(txn, id)
			if err != nil {
				return err
			}
			if conversation.HasParticipant(userID) {
				conversations = append(conversations, conversation)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "inbox")
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.Before(conversations[j].CreatedAt)
	})
	return conversations, nil
}

func loadConversation(txn *badger.Txn, id uuid.UUID) (domain.Conversation, error) {
	var r record.Conversation
	if err := getRecord(txn, conversationKey(id), &r); err != nil {
		return domain.Conversation{}, err
	}
	return record.ToConversation(r)
}
