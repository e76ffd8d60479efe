package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/database/repository"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Add inserts the review and updates the listing's and provider's rating
// aggregates in a single transaction. The review _id equals the booking ID,
// so a second review for the same booking hits the unique index and the
// whole transaction aborts with ErrDuplicateReview.
func (r *MongoReviewRepo) Add(ctx context.Context, review *models.Review, now time.Time) error {
	client := r.reviewColl.Database().Client()

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.reviewColl.InsertOne(sc, review); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateReview
			}
			return fmt.Errorf("insert review failed: %w", err)
		}

		var listing models.Listing
		if err := r.listingColl.FindOne(sc, bson.M{"id": review.ListingID}).Decode(&listing); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrListingNotFound
			}
			return fmt.Errorf("failed to read listing %s: %w", review.ListingID, err)
		}
		listing.Rating.Apply(review.Rating, now)
		if _, err := r.listingColl.UpdateOne(sc,
			bson.M{"id": listing.ID},
			bson.M{"$set": bson.M{"rating": listing.Rating, "updatedAt": now}},
		); err != nil {
			return fmt.Errorf("failed to update listing rating: %w", err)
		}

		var provider models.Provider
		if err := r.providerColl.FindOne(sc, bson.M{"id": review.ProviderID}).Decode(&provider); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrProviderNotFound
			}
			return fmt.Errorf("failed to read provider %s: %w", review.ProviderID, err)
		}
		provider.Rating.Apply(review.Rating, now)
		if _, err := r.providerColl.UpdateOne(sc,
			bson.M{"id": provider.ID},
			bson.M{"$set": bson.M{"rating": provider.Rating, "updatedAt": now}},
		); err != nil {
			return fmt.Errorf("failed to update provider rating: %w", err)
		}

		return nil
	}

	if err := repository.RunTransaction(ctx, client, txnFn); err != nil {
		if errors.Is(err, ErrDuplicateReview) || errors.Is(err, ErrListingNotFound) || errors.Is(err, ErrProviderNotFound) {
			return err
		}
		return fmt.Errorf("review transaction failed: %w", err)
	}
	return nil
}
