package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/infrastructure/record"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository struct {
	messages      *mongo.Collection
	conversations *mongo.Collection
	log           *slog.Logger
}

// Append inserts the message then pushes its id and moves the tail in one
// single-document update. The server applies updates to one document one at
// a time, which gives the per-conversation ordering. The tail can never point
// at a missing message because the message is written first.
func (r *MessageRepository) Append(ctx context.Context, conversationID uuid.UUID, message domain.Message) (domain.Conversation, error) {
	if _, err := r.messages.InsertOne(ctx, record.FromMessage(message)); err != nil {
		return domain.Conversation{}, wrap(err, fmt.Sprintf("message %s", message.ID))
	}

	id := message.ID.String()
	update := bson.M{
		"$push": bson.M{"message_ids": id},
		"$set":  bson.M{"last_message_id": id},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc record.Conversation
	err := r.conversations.FindOneAndUpdate(ctx, bson.M{"_id": conversationID.String()}, update, opts).Decode(&doc)
	if err != nil {
		// The message is unreachable without its conversation
		if _, delErr := r.messages.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": id}); delErr != nil {
			r.log.Warn("Orphan message left behind", "message_id", id, "error", delErr)
		}
		return domain.Conversation{}, wrap(err, fmt.Sprintf("conversation %s", conversationID))
	}
	return record.ToConversation(doc)
}

func (r *MessageRepository) Get(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	var doc record.Message
	if err := r.messages.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return domain.Message{}, wrap(err, fmt.Sprintf("message %s", id))
	}
	return record.ToMessage(doc)
}

// GetMany returns the messages in the order of ids.
func (r *MessageRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Message, error) {
	cursor, err := r.messages.Find(ctx, bson.M{"_id": bson.M{"$in": record.IDStrings(ids)}})
	if err != nil {
		return nil, wrap(err, "messages")
	}
	var docs []record.Message
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap(err, "messages")
	}

	byID := make(map[string]record.Message, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		doc, ok := byID[id.String()]
		if !ok {
			return nil, fmt.Errorf("%w: message %s", errors.ErrNotFound, id)
		}
		message, err := record.ToMessage(doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// MarkRead only matches unread messages, so concurrent readers flip the flag once.
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.messages.UpdateOne(ctx,
		bson.M{"_id": id.String(), "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return false, wrap(err, fmt.Sprintf("message %s", id))
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
