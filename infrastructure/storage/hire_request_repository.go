package storage

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain/hire"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type HireRequestRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *keyedMutex
}

func (r *HireRequestRepository) Create(ctx context.Context, request hire.HireRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(hireRequestKey(request.ID)); err == nil {
			return fmt.Errorf("%w: hire request %s already exists", errors.ErrInvalidRequest, request.ID)
		}
		for _, userID := range []string{request.ClientID, request.DesignerID} {
			if err := txn.Set(hireUserKey(userID, request.CreatedAt, request.ID), []byte(request.ID.String())); err != nil {
				return err
			}
		}
		return putRecord(txn, hireRequestKey(request.ID), record.FromHireRequest(request))
	})
	return wrap(err, fmt.Sprintf("hire request %s", request.ID))
}

func (r *HireRequestRepository) Get(ctx context.Context, id uuid.UUID) (hire.HireRequest, error) {
	if err := ctx.Err(); err != nil {
		return hire.HireRequest{}, err
	}
	var request hire.HireRequest
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		request, err = loadHireRequest(txn, id)
		return err
	})
	if err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return request, nil
}

// CompareAndSwapStatus writes next only while the stored status is still expected.
// A mismatch, or a badger write conflict, is reported as ErrConflictingTransition.
func (r *HireRequestRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID,
	expected, next hire.Status, at time.Time) (hire.HireRequest, error) {
	if err := ctx.Err(); err != nil {
		return hire.HireRequest{}, err
	}
	unlock := r.locks.Lock(string(hireRequestKey(id)))
	defer unlock()

	var request hire.HireRequest
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		request, err = loadHireRequest(txn, id)
		if err != nil {
			return err
		}
		if request.Status != expected {
			return fmt.Errorf("%w: hire request %s is %s, expected %s",
				errors.ErrConflictingTransition, id, request.Status, expected)
		}
		request.Status = next
		request.UpdatedAt = at
		return putRecord(txn, hireRequestKey(id), record.FromHireRequest(request))
	})
	if errors.Is(err, badger.ErrConflict) {
		return hire.HireRequest{}, fmt.Errorf("%w: hire request %s", errors.ErrConflictingTransition, id)
	}
	if err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return request, nil
}

// ListByParticipant returns the requests userID is part of, oldest first.
func (r *HireRequestRepository) ListByParticipant(ctx context.Context, userID string) ([]hire.HireRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	requests := []hire.HireRequest{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := hireUserPrefix(userID)
		for _, key := range scanKeys(txn, prefix) {
			if !ownsHireUserKey(prefix, key) {
				continue
			}
			item, err := txn.Get(key)
			if err != nil {
				return err
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := uuid.ParseBytes(raw)
			if err != nil {
				return fmt.Errorf("corrupted hire index %q: %w", key, err)
			}
			request, err := loadHireRequest(txn, id)
			if err != nil {
				return err
			}
			if request.IsParticipant(userID) {
				requests = append(requests, request)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap(err, "hire requests")
	}
	return requests, nil
}

func loadHireRequest(txn *badger.Txn, id uuid.UUID) (hire.HireRequest, error) {
	var r record.HireRequest
	if err := getRecord(txn, hireRequestKey(id), &r); err != nil {
		return hire.HireRequest{}, err
	}
	return record.ToHireRequest(r)
}
