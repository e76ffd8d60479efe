package listingRepo

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

type MongoListingRepo struct {
	coll *mongo.Collection
}

func NewMongoListingRepo() *MongoListingRepo {
	return &MongoListingRepo{coll: database.Collection(database.ListingsCollection)}
}

func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	return &l, nil
}
