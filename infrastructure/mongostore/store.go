// Package mongostore implements the repositories on MongoDB.
//
// A conversation is one document holding its ordered message ids, so an
// append is a single-document $push + $set and needs no transaction.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionHireRequests  = "hire_requests"
	CollectionProfiles      = "profiles"
	CollectionProviders     = "providers"
)

type Store struct {
	Conversations *ConversationRepository
	Messages      *MessageRepository
	HireRequests  *HireRequestRepository
	Profiles      *ProfileRepository
	db            *mongo.Database
}

// Connect opens a client and checks the deployment answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func NewStore(db *mongo.Database, log *slog.Logger) *Store {
	conversations := db.Collection(CollectionConversations)
	messages := db.Collection(CollectionMessages)
	return &Store{
		Conversations: &ConversationRepository{coll: conversations, log: log},
		Messages:      &MessageRepository{messages: messages, conversations: conversations, log: log},
		HireRequests:  &HireRequestRepository{coll: db.Collection(CollectionHireRequests), log: log},
		Profiles: &ProfileRepository{
			profiles:  db.Collection(CollectionProfiles),
			providers: db.Collection(CollectionProviders),
			log:       log,
		},
		db: db,
	}
}

// EnsureIndexes creates the indexes the repositories rely on.
// The unique participant_key index is what makes GetOrCreate idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(CollectionConversations).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "participant_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participants", Value: 1}, {Key: "created_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}

	_, err = s.db.Collection(CollectionHireRequests).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "designer_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create hire request indexes: %w", err)
	}
	return nil
}

func wrap(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Kind(err) != nil:
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %s", errors.ErrNotFound, what)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", errors.ErrStorageUnavailable, what, err)
	}
}
