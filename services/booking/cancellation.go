package booking

import (
	"context"
	"errors"
	"time"

	listingRepo "guidely/database/repository/listing"
	"guidely/models"

	"go.uber.org/zap"
)

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// refundPercentFor applies the listing's cancellation policy at a point in
// time. Canceling at or past the start time is treated as a no-show.
func refundPercentFor(policy models.CancellationPolicy, start, now time.Time) int {
	hoursBefore := start.Sub(now).Hours()
	if hoursBefore <= 0 {
		return clampPercent(policy.NoShowRefundPercent)
	}
	if hoursBefore >= float64(policy.FreeCancelHours) {
		return 100
	}
	return clampPercent(policy.RefundPercentAfterDeadline)
}

// CancelBooking cancels on behalf of the buyer, the provider, or an admin.
// Pre-payment cancellations are a pure state/slot reset; paid ones refund a
// policy-derived percentage of the original charge. Once the payout has been
// released only an admin override can cancel.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller Caller, bookingID string) (*models.CancelResult, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if caller.ID != b.BuyerID && caller.ID != b.ProviderID && !caller.IsAdmin() {
		return nil, NewError(KindPermissionDenied, "not allowed to cancel this booking")
	}
	if b.Status.IsCanceled() {
		return nil, NewError(KindFailedPrecondition, "booking is already canceled")
	}
	if b.PayoutStatus == models.PayoutPaid {
		return nil, NewError(KindFailedPrecondition, "cannot cancel after payout")
	}

	// Not yet charged: no refund computation, just reset state and slot.
	if !b.Status.IsPaid() {
		if err := s.Bookings.CancelAndReleaseSlot(ctx, b, models.BookingCanceled, 0, "", s.now()); err != nil {
			return nil, Errorf(KindInternal, "cancellation failed: %v", err)
		}
		s.notifyCanceled(ctx, b, 0)
		return &models.CancelResult{Canceled: true}, nil
	}

	listing, err := s.Listings.GetByID(ctx, b.ListingID)
	if err != nil {
		if errors.Is(err, listingRepo.ErrListingNotFound) {
			return nil, Errorf(KindNotFound, "listing %s not found", b.ListingID)
		}
		return nil, Errorf(KindInternal, "failed to load listing: %v", err)
	}

	percent := refundPercentFor(listing.Policy, b.Start, s.now())
	return s.cancelPaid(ctx, b, models.BookingCanceled, percent)
}

// AdminOverrideCancel bypasses the deadline policy with an explicit refund
// percentage. If the payout already went out, the transfer reversal is
// attempted best-effort: the cancellation is recorded even when it fails.
func (s *DefaultBookingService) AdminOverrideCancel(ctx context.Context, caller Caller, bookingID string, refundPercent int) (*models.CancelResult, error) {
	if !caller.IsAdmin() {
		return nil, NewError(KindPermissionDenied, "admin role required")
	}
	if refundPercent < 0 || refundPercent > 100 {
		return nil, NewError(KindInvalidArgument, "refundPercent must be within [0,100]")
	}

	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsCanceled() {
		return nil, NewError(KindFailedPrecondition, "booking is already canceled")
	}

	if b.PayoutStatus == models.PayoutPaid && b.TransferRef != "" {
		if err := s.Gateway.ReverseTransfer(ctx, b.TransferRef); err != nil {
			s.Logger.Error("transfer reversal failed, recording cancellation anyway",
				zap.String("booking", b.ID),
				zap.String("transfer", b.TransferRef),
				zap.Error(err),
			)
		}
	}

	if !b.Status.IsPaid() {
		if err := s.Bookings.CancelAndReleaseSlot(ctx, b, models.BookingCanceledAdmin, 0, "", s.now()); err != nil {
			return nil, Errorf(KindInternal, "cancellation failed: %v", err)
		}
		s.notifyCanceled(ctx, b, 0)
		return &models.CancelResult{Canceled: true}, nil
	}
	return s.cancelPaid(ctx, b, models.BookingCanceledAdmin, refundPercent)
}

// cancelPaid refunds percent of the charge and then cancels the booking and
// releases the slot in one store transaction. The refund happens before the
// transaction because the store cannot span the payment API.
func (s *DefaultBookingService) cancelPaid(ctx context.Context, b *models.Booking, status models.BookingStatus, percent int) (*models.CancelResult, error) {
	refundAmount := b.Amount * int64(percent) / 100
	refundRef := ""
	if refundAmount > 0 {
		if b.ChargeRef == "" {
			return nil, NewError(KindFailedPrecondition, "booking has no charge to refund")
		}
		ref, err := s.Gateway.RefundCharge(ctx, b.ChargeRef, refundAmount)
		if err != nil {
			return nil, Errorf(KindInternal, "refund failed: %v", err)
		}
		refundRef = ref
	}

	if err := s.Bookings.CancelAndReleaseSlot(ctx, b, status, percent, refundRef, s.now()); err != nil {
		// The refund already went through; this must be loud.
		s.Logger.Error("booking cancel write failed after refund",
			zap.String("booking", b.ID),
			zap.String("refund", refundRef),
			zap.Error(err),
		)
		return nil, Errorf(KindInternal, "cancellation failed: %v", err)
	}

	s.Logger.Info("booking canceled",
		zap.String("booking", b.ID),
		zap.Int("refundPercent", percent),
		zap.Int64("refundAmount", refundAmount),
	)
	s.notifyCanceled(ctx, b, percent)

	return &models.CancelResult{
		Canceled:      true,
		Refunded:      refundAmount > 0,
		RefundPercent: percent,
		RefundAmount:  refundAmount,
		RefundRef:     refundRef,
	}, nil
}

func (s *DefaultBookingService) notifyCanceled(ctx context.Context, b *models.Booking, percent int) {
	if s.Notifier != nil {
		s.Notifier.NotifyBookingCanceled(ctx, b, percent)
	}
}
