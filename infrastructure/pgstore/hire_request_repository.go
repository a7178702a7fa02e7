package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"market-lab/domain/hire"
	"market-lab/errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type HireRequestRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func (r *HireRequestRepository) Create(ctx context.Context, request hire.HireRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hire_requests (`+hireColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		request.ID.String(), request.ClientID, request.DesignerID,
		request.Requirements.Title, request.Requirements.Description, request.Requirements.Budget,
		request.Requirements.Timeline, stringArray(request.Requirements.Attachments),
		string(request.Status), request.CreatedAt, request.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: hire request %s already exists", errors.ErrInvalidRequest, request.ID)
	}
	return wrap(err, fmt.Sprintf("hire request %s", request.ID))
}

func (r *HireRequestRepository) Get(ctx context.Context, id uuid.UUID) (hire.HireRequest, error) {
	var row hireRow
	err := r.db.GetContext(ctx, &row, `SELECT `+hireColumns+` FROM hire_requests WHERE id = $1`, id.String())
	if err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return row.toDomain()
}

// CompareAndSwapStatus only updates a row still in the expected status.
func (r *HireRequestRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expected, next hire.Status, at time.Time) (hire.HireRequest, error) {
	var row hireRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE hire_requests SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING `+hireColumns,
		string(next), at, id.String(), string(expected))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return hire.HireRequest{}, getErr
		}
		return hire.HireRequest{}, fmt.Errorf("%w: hire request %s is no longer %s",
			errors.ErrConflictingTransition, id, expected)
	}
	if err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return row.toDomain()
}

func (r *HireRequestRepository) ListByParticipant(ctx context.Context, userID string) ([]hire.HireRequest, error) {
	var rows []hireRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+hireColumns+` FROM hire_requests
		WHERE client_id = $1 OR designer_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, wrap(err, "hire requests")
	}
	requests := make([]hire.HireRequest, 0, len(rows))
	for _, row := range rows {
		request, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}
