package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepository struct {
	coll *mongo.Collection
	log  *slog.Logger
}

// GetOrCreate upserts on the unique participant key. When two callers race,
// the loser hits a duplicate key error and reads the winner's document.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, participants domain.ParticipantSet) (domain.Conversation, error) {
	candidate := record.FromConversation(domain.NewConversation(participants, time.Now().UTC()))
	filter := bson.M{"participant_key": candidate.ParticipantKey}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":          candidate.ID,
		"participants": candidate.Participants,
		"message_ids":  candidate.MessageIDs,
		"created_at":   candidate.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc record.Conversation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = r.coll.FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		return domain.Conversation{}, wrap(err, "conversation")
	}
	if doc.ID == candidate.ID {
		r.log.Debug("Conversation created", "conversation_id", doc.ID)
	}
	return record.ToConversation(doc)
}

func (r *ConversationRepository) Get(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	var doc record.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", id))
	}
	return record.ToConversation(doc)
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, wrap(err, "inbox")
	}
	var docs []record.Conversation
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap(err, "inbox")
	}

	conversations := make([]domain.Conversation, 0, len(docs))
	for _, doc := range docs {
		conversation, err := record.ToConversation(doc)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	return conversations, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
