package review

import (
	"context"

	"guidely/models"
	"guidely/services/booking"
)

// ReviewService maintains rating aggregates for listings and providers.
type ReviewService interface {
	AddReview(ctx context.Context, caller booking.Caller, bookingID string, rating int, comment string) (*models.Review, error)
}
