package review

import (
	"context"
	"errors"
	"time"

	bookingRepo "guidely/database/repository/booking"
	reviewRepo "guidely/database/repository/review"
	"guidely/models"
	"guidely/services/booking"

	"go.uber.org/zap"
)

// DefaultReviewService implements ReviewService.
type DefaultReviewService struct {
	Bookings bookingRepo.BookingRepository
	Reviews  reviewRepo.ReviewRepository
	Logger   *zap.Logger

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultReviewService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// AddReview records one review per booking and folds the rating into the
// listing's and provider's aggregates in a single store transaction.
func (s *DefaultReviewService) AddReview(ctx context.Context, caller booking.Caller, bookingID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, booking.NewError(booking.KindInvalidArgument, "rating must be between 1 and 5")
	}

	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, booking.Errorf(booking.KindNotFound, "booking %s not found", bookingID)
		}
		return nil, booking.Errorf(booking.KindInternal, "failed to load booking: %v", err)
	}
	if caller.ID != b.BuyerID {
		return nil, booking.NewError(booking.KindPermissionDenied, "only the buyer may review this booking")
	}
	if !b.Status.IsPaid() {
		return nil, booking.Errorf(booking.KindFailedPrecondition, "booking is %s, reviews need a completed paid booking", b.Status)
	}
	now := s.now()
	if b.End.After(now) {
		return nil, booking.NewError(booking.KindFailedPrecondition, "booking has not ended yet")
	}

	rev := &models.Review{
		ID:         b.ID, // one review per booking, by construction
		BuyerID:    b.BuyerID,
		ListingID:  b.ListingID,
		ProviderID: b.ProviderID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
	}

	if err := s.Reviews.Add(ctx, rev, now); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicateReview) {
			return nil, booking.NewError(booking.KindAlreadyExists, "booking already reviewed")
		}
		return nil, booking.Errorf(booking.KindInternal, "failed to add review: %v", err)
	}

	s.Logger.Info("review added",
		zap.String("booking", b.ID),
		zap.String("listing", b.ListingID),
		zap.Int("rating", rating),
	)
	return rev, nil
}
