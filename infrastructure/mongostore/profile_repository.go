package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/infrastructure/record"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository stores profiles and the provider roster.
type ProfileRepository struct {
	profiles  *mongo.Collection
	providers *mongo.Collection
	log       *slog.Logger
}

func (r *ProfileRepository) FindOrCreate(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	doc := record.FromProfile(profile)
	update := bson.M{"$setOnInsert": bson.M{
		"email":        doc.Email,
		"display_name": doc.DisplayName,
		"address_line": doc.AddressLine,
		"created_at":   doc.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored record.Profile
	err := r.profiles.FindOneAndUpdate(ctx, bson.M{"_id": profile.UserID}, update, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		err = r.profiles.FindOne(ctx, bson.M{"_id": profile.UserID}).Decode(&stored)
	}
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", profile.UserID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	var stored record.Profile
	if err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&stored); err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) UpdateAddress(ctx context.Context, userID, addressLine string) (domain.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored record.Profile
	err := r.profiles.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"address_line": addressLine}},
		opts).Decode(&stored)
	if err != nil {
		return domain.Profile{}, wrap(err, fmt.Sprintf("profile %s", userID))
	}
	return record.ToProfile(stored), nil
}

func (r *ProfileRepository) IsProvider(ctx context.Context, userID string) (bool, error) {
	var provider record.Provider
	err := r.providers.FindOne(ctx, bson.M{"_id": userID}).Decode(&provider)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, wrap(err, "provider roster")
	}
}

func (r *ProfileRepository) AddProvider(ctx context.Context, userID string) error {
	_, err := r.providers.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return wrap(err, "provider roster")
}
