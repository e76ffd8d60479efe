package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "guidely/database/repository/booking"
	listingRepo "guidely/database/repository/listing"
	providerRepo "guidely/database/repository/provider"
	"guidely/models"
	"guidely/services/notification"
	"guidely/services/payment"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Providers providerRepo.ProviderRepository
	Listings  listingRepo.ListingRepository
	Gateway   payment.Gateway
	Notifier  notification.NotificationService
	Logger    *zap.Logger

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time

	PayoutBatchSize int64
	PayoutBuffer    time.Duration
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, Errorf(KindNotFound, "booking %s not found", id)
		}
		return nil, Errorf(KindInternal, "failed to load booking: %v", err)
	}
	return b, nil
}

// GetBooking returns a booking visible to its buyer, its provider, or an admin.
func (s *DefaultBookingService) GetBooking(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if caller.ID != b.BuyerID && caller.ID != b.ProviderID && !caller.IsAdmin() {
		return nil, NewError(KindPermissionDenied, "not a party to this booking")
	}
	return b, nil
}

// ListBookings returns the caller's bookings as a buyer, newest first.
func (s *DefaultBookingService) ListBookings(ctx context.Context, caller Caller) ([]models.Booking, error) {
	bookings, err := s.Bookings.ListByBuyer(ctx, caller.ID, 100)
	if err != nil {
		return nil, Errorf(KindInternal, "failed to list bookings: %v", err)
	}
	return bookings, nil
}
