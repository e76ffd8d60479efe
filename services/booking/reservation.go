package booking

import (
	"context"
	"errors"

	bookingRepo "guidely/database/repository/booking"
	"guidely/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReserveSlot atomically locks the availability slot and creates the booking
// in pending_payment. No payment is taken here; the store transaction is the
// only thing preventing a double-booking.
func (s *DefaultBookingService) ReserveSlot(ctx context.Context, caller Caller, input ReserveInput) (*models.Booking, error) {
	if input.Amount <= 0 {
		return nil, NewError(KindInvalidArgument, "amount must be a positive number of minor currency units")
	}
	if len(input.Currency) != 3 {
		return nil, NewError(KindInvalidArgument, "currency must be a 3-letter ISO code")
	}
	if input.PeopleCount < 1 {
		return nil, NewError(KindInvalidArgument, "peopleCount must be at least 1")
	}
	if input.ListingType != "tour" && input.ListingType != "experience" {
		return nil, NewError(KindInvalidArgument, "listingType must be \"tour\" or \"experience\"")
	}
	if !input.End.After(input.Start) {
		return nil, NewError(KindInvalidArgument, "end must be after start")
	}

	b := &models.Booking{
		ID:           uuid.New().String(),
		BuyerID:      caller.ID,
		ListingType:  input.ListingType,
		ListingID:    input.ListingID,
		ProviderID:   input.ProviderID,
		SlotID:       input.SlotID,
		Start:        input.Start.UTC(),
		End:          input.End.UTC(),
		PeopleCount:  input.PeopleCount,
		Amount:       input.Amount,
		Currency:     input.Currency,
		Status:       models.BookingPendingPayment,
		PayoutStatus: models.PayoutNotScheduled,
		CreatedAt:    s.now(),
	}

	if err := s.Bookings.ReserveSlot(ctx, input.ProviderID, b); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrSlotNotFound):
			return nil, Errorf(KindNotFound, "slot %s not found", input.SlotID)
		case errors.Is(err, bookingRepo.ErrSlotOwnerMismatch):
			return nil, NewError(KindPermissionDenied, "slot does not belong to the given provider")
		case errors.Is(err, bookingRepo.ErrSlotReserved):
			return nil, NewError(KindFailedPrecondition, "slot no longer available")
		default:
			return nil, Errorf(KindInternal, "reservation failed: %v", err)
		}
	}

	s.Logger.Info("slot reserved",
		zap.String("booking", b.ID),
		zap.String("slot", b.SlotID),
		zap.String("buyer", b.BuyerID),
	)
	return b, nil
}
