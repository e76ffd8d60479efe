package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSlotRepo struct {
	coll *mongo.Collection
}

func NewMongoSlotRepo() *MongoSlotRepo {
	return &MongoSlotRepo{coll: database.Collection(database.SlotsCollection)}
}

func (r *MongoSlotRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	slot.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

func (r *MongoSlotRepo) GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to fetch slot %s: %w", id, err)
	}
	return &slot, nil
}

func (r *MongoSlotRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.AvailabilitySlot, error) {
	opts := options.Find().
		SetSort(bson.M{"start": 1}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for provider %s: %w", providerID, err)
	}
	defer cur.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}
