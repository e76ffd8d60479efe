package reviewRepo

import (
	"context"
	"errors"
	"time"

	"guidely/models"
)

var (
	ErrDuplicateReview  = errors.New("review already exists for booking")
	ErrListingNotFound  = errors.New("listing not found")
	ErrProviderNotFound = errors.New("provider not found")
)

// ReviewRepository owns the add-review transaction: inserting the review and
// folding its rating into the listing's and provider's aggregates atomically.
type ReviewRepository interface {
	// Add inserts the review and updates both rating aggregates in one
	// transaction. The review's _id is the booking ID; a duplicate insert
	// fails with ErrDuplicateReview.
	Add(ctx context.Context, review *models.Review, now time.Time) error

	GetByBooking(ctx context.Context, bookingID string) (*models.Review, error)
}
