package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"time"

	"github.com/jmoiron/sqlx"
)

// ProfileRepository stores profiles and the provider roster.
type ProfileRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func (r *ProfileRepository) FindOrCreate(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`,
		profile.UserID, profile.Email, profile.DisplayName, profile.AddressLine, profile.CreatedAt)
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", profile.UserID))
	}
	if n, _ := res.RowsAffected(); n == 1 {
		r.log.Info("Profile created", "user_id", profile.UserID)
	}
	return r.Get(ctx, profile.UserID)
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) UpdateAddress(ctx context.Context, userID, addressLine string) (domain.Profile, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row,
		`UPDATE profiles SET address_line = $1 WHERE user_id = $2 RETURNING `+profileColumns,
		addressLine, userID)
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return row.toDomain(), nil
}

func (r *ProfileRepository) IsProvider(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM providers WHERE user_id = $1)`, userID)
	if err != nil {
		return false, wrap(err, "provider roster")
	}
	return exists, nil
}

func (r *ProfileRepository) AddProvider(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO providers (user_id, created_at) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, time.Now().UTC())
	return wrap(err, "provider roster")
}
