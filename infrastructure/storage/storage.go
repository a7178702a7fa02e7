// Package storage implements the repositories on top of an embedded BadgerDB.
//
// Every read-modify-write runs inside a single badger transaction while a
// per-key mutex is held, so writers of the same conversation, message or hire
// request queue up instead of failing on optimistic conflicts.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/errors"
	"market-lab/infrastructure/record"

	"github.com/dgraph-io/badger/v4"
)

// Store bundles the badger repositories sharing one database and one lock table.
type Store struct {
	Conversations *ConversationRepository
	Messages      *MessageRepository
	HireRequests  *HireRequestRepository
	Profiles      *ProfileRepository
}

func NewStore(db *badger.DB, log *slog.Logger) *Store {
	locks := newKeyedMutex()
	return &Store{
		Conversations: &ConversationRepository{db: db, log: log, locks: locks},
		Messages:      &MessageRepository{db: db, log: log, locks: locks},
		HireRequests:  &HireRequestRepository{db: db, log: log, locks: locks},
		Profiles:      &ProfileRepository{db: db, log: log, locks: locks},
	}
}

func getRecord(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(data []byte) error {
		return record.Decode(data, v)
	})
}

func putRecord(txn *badger.Txn, key []byte, v any) error {
	data, err := record.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// scanKeys collects the keys under prefix.
func scanKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// wrap translates badger failures into domain error kinds.
func wrap(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Kind(err) != nil:
		return err
	case errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("%w: %s", errors.ErrNotFound, what)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", errors.ErrStorageUnavailable, what, err)
	}
}
