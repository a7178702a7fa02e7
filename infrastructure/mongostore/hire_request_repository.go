package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain/hire"
	"market-lab/errors"
	"market-lab/infrastructure/record"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HireRequestRepository struct {
	coll *mongo.Collection
	log  *slog.Logger
}

func (r *HireRequestRepository) Create(ctx context.Context, request hire.HireRequest) error {
	_, err := r.coll.InsertOne(ctx, record.FromHireRequest(request))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: hire request %s already exists", errors.ErrInvalidRequest, request.ID)
	}
	return wrap(err, fmt.Sprintf("hire request %s", request.ID))
}

func (r *HireRequestRepository) Get(ctx context.Context, id uuid.UUID) (hire.HireRequest, error) {
	var doc record.HireRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return record.ToHireRequest(doc)
}

// CompareAndSwapStatus filters on the expected status so only one of two
// concurrent transitions can match the document.
func (r *HireRequestRepository) CompareAndSwapStatus(ctx context.Context, id uuid.UUID, expected, next hire.Status, at time.Time) (hire.HireRequest, error) {
	filter := bson.M{"_id": id.String(), "status": string(expected)}
	update := bson.M{"$set": bson.M{"status": string(next), "updated_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc record.HireRequest
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if isNotFound(err) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return hire.HireRequest{}, getErr
		}
		return hire.HireRequest{}, fmt.Errorf("%w: hire request %s is no longer %s",
			errors.ErrConflictingTransition, id, expected)
	}
	if err != nil {
		return hire.HireRequest{}, wrap(err, fmt.Sprintf("hire request %s", id))
	}
	return record.ToHireRequest(doc)
}

func (r *HireRequestRepository) ListByParticipant(ctx context.Context, userID string) ([]hire.HireRequest, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"client_id": userID},
		bson.M{"designer_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(err, "hire requests")
	}
	var docs []record.HireRequest
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap(err, "hire requests")
	}

	requests := make([]hire.HireRequest, 0, len(docs))
	for _, doc := range docs {
		request, err := record.ToHireRequest(doc)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}
