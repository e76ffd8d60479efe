package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoProviderRepo struct {
	coll *mongo.Collection
}

func NewMongoProviderRepo() *MongoProviderRepo {
	return &MongoProviderRepo{coll: database.Collection(database.ProvidersCollection)}
}

func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	now := time.Now().UTC()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	if provider.Tier == "" {
		provider.Tier = models.TierFree
	}
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var p models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoProviderRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update provider %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrProviderNotFound
	}
	return nil
}

func (r *MongoProviderRepo) UpdateTierByCustomer(ctx context.Context, customerID string, tier models.CommissionTier) error {
	update := bson.M{"$set": bson.M{"tier": tier, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"stripeCustomerId": customerID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tier for customer %s: %w", customerID, err)
	}
	if res.MatchedCount == 0 {
		return ErrProviderNotFound
	}
	return nil
}
