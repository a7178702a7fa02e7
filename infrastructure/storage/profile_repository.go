package storage

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ProfileRepository stores profiles and the provider roster.
type ProfileRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *keyedMutex
}

// FindOrCreate keeps the stored profile when one exists, the provider data
// never overwrites what onboarding filled in.
func (r *ProfileRepository) FindOrCreate(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	unlock := r.locks.Lock(string(profileKey(profile.UserID)))
	defer unlock()

	var stored record.Profile
	err := r.db.Update(func(txn *badger.Txn) error {
		err := getRecord(txn, profileKey(profile.UserID), &stored)
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = time.Now().UTC()
		}
		stored = record.FromProfile(profile)
		r.log.Info("Profile created", "user_id", profile.UserID)
		return putRecord(txn, profileKey(profile.UserID), stored)
	})
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", profile.UserID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	var stored record.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, profileKey(userID), &stored)
	})
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) UpdateAddress(ctx context.Context, userID, addressLine string) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}
	unlock := r.locks.Lock(string(profileKey(userID)))
	defer unlock()

	var stored record.Profile
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := getRecord(txn, profileKey(userID), &stored); err != nil {
			return err
		}
		stored.AddressLine = addressLine
		return putRecord(txn, profileKey(userID), stored)
	})
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) IsProvider(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(providerKey(userID))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, wrap(err, "provider roster")
	}
}

func (r *ProfileRepository) AddProvider(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(providerKey(userID)); err == nil {
			return nil
		}
		return putRecord(txn, providerKey(userID), record.Provider{UserID: userID, CreatedAt: time.Now().UTC()})
	})
	return wrap(err, "provider roster")
}
