package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository on MongoDB. It holds both the
// booking and slot collections because the reserve and cancel operations span
// the two documents transactionally.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	slotColl    *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		bookingColl: database.Collection(database.BookingsCollection),
		slotColl:    database.Collection(database.SlotsCollection),
	}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *MongoBookingRepo) ListByBuyer(ctx context.Context, buyerID string, limit int64) ([]models.Booking, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit)
	cur, err := r.bookingColl.Find(ctx, bson.M{"buyerId": buyerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for buyer %s: %w", buyerID, err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res, err := r.bookingColl.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}
