// Package pgstore implements the repositories on PostgreSQL.
//
// Message ids are kept in a TEXT[] on the conversation row. Appending runs
// in one transaction and the UPDATE row lock orders concurrent appends to
// the same conversation.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"market-lab/errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	DB            *sqlx.DB
	Conversations *ConversationRepository
	Messages      *MessageRepository
	HireRequests  *HireRequestRepository
	Profiles      *ProfileRepository
}

func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func NewStore(db *sqlx.DB, log *slog.Logger) *Store {
	return &Store{
		DB:            db,
		Conversations: &ConversationRepository{db: db, log: log},
		Messages:      &MessageRepository{db: db, log: log},
		HireRequests:  &HireRequestRepository{db: db, log: log},
		Profiles:      &ProfileRepository{db: db, log: log},
	}
}

var schema = []struct {
	table string
	ddl   string
}{
	{"conversations", `
		CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			participant_key TEXT UNIQUE NOT NULL,
			participants TEXT[] NOT NULL,
			message_ids TEXT[] NOT NULL DEFAULT '{}',
			last_message_id TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
	{"messages", `
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			sender_id TEXT NOT NULL,
			receiver_id TEXT NOT NULL,
			content TEXT NOT NULL,
			attachments TEXT[] NOT NULL DEFAULT '{}',
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
	{"hire_requests", `
		CREATE TABLE IF NOT EXISTS hire_requests (
			id UUID PRIMARY KEY,
			client_id TEXT NOT NULL,
			designer_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			budget NUMERIC NOT NULL DEFAULT 0,
			timeline TEXT NOT NULL DEFAULT '',
			attachments TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`},
	{"profiles", `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			address_line TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
	{"providers", `
		CREATE TABLE IF NOT EXISTS providers (
			user_id TEXT PRIMARY KEY,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`},
}

// InitializeTables creates all tables if they don't exist
func (s *Store) InitializeTables(ctx context.Context) error {
	for _, t := range schema {
		if _, err := s.DB.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.table, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

func wrap(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Kind(err) != nil:
		return err
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", errors.ErrNotFound, what)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", errors.ErrStorageUnavailable, what, err)
	}
}
