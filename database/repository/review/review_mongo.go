package reviewRepo

import (
	"context"
	"errors"
	"fmt"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReviewRepo holds the review, listing, and provider collections because
// adding a review mutates all three documents in one transaction.
type MongoReviewRepo struct {
	reviewColl   *mongo.Collection
	listingColl  *mongo.Collection
	providerColl *mongo.Collection
}

func NewMongoReviewRepo() *MongoReviewRepo {
	return &MongoReviewRepo{
		reviewColl:   database.Collection(database.ReviewsCollection),
		listingColl:  database.Collection(database.ListingsCollection),
		providerColl: database.Collection(database.ProvidersCollection),
	}
}

func (r *MongoReviewRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Review, error) {
	var rev models.Review
	err := r.reviewColl.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&rev)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch review for booking %s: %w", bookingID, err)
	}
	return &rev, nil
}
