package booking

import (
	"context"
	"time"

	"guidely/models"
	"guidely/services/payment"

	"go.uber.org/zap"
)

// payoutEligible reports whether the booking can be settled at now, with a
// human-readable reason when it cannot.
func (s *DefaultBookingService) payoutEligible(b *models.Booking, now time.Time) (bool, string) {
	if !b.Status.IsPaid() {
		return false, "booking not in a paid state"
	}
	if b.PayoutStatus == models.PayoutPaid {
		return false, "payout already settled"
	}
	if b.End.Add(s.PayoutBuffer).After(now) {
		return false, "service not completed yet"
	}
	if b.PayoutDestination == "" || b.ChargeRef == "" || b.SellerNetAmount <= 0 {
		return false, "missing payout destination, charge reference, or net amount"
	}
	return true, ""
}

// settle claims the payout, issues the transfer, and records the result. On
// transfer failure the claim is reverted so the next run retries; a payout
// failure is never allowed to look like success.
func (s *DefaultBookingService) settle(ctx context.Context, b *models.Booking, now time.Time) (*models.PayoutResult, error) {
	claimed, err := s.Bookings.ClaimPayout(ctx, b.ID)
	if err != nil {
		return nil, Errorf(KindInternal, "failed to claim payout: %v", err)
	}
	if !claimed {
		// Another run holds or settled this payout.
		return nil, NewError(KindFailedPrecondition, "payout already in progress")
	}

	transferID, err := s.Gateway.Transfer(ctx, payment.TransferParams{
		Amount:        b.SellerNetAmount,
		Currency:      b.Currency,
		Destination:   b.PayoutDestination,
		SourceCharge:  b.ChargeRef,
		TransferGroup: b.ID,
		Metadata: map[string]string{
			"bookingId":  b.ID,
			"providerId": b.ProviderID,
		},
	})
	if err != nil {
		if revertErr := s.Bookings.RevertPayout(ctx, b.ID); revertErr != nil {
			s.Logger.Error("failed to revert payout claim",
				zap.String("booking", b.ID), zap.Error(revertErr))
		}
		return nil, Errorf(KindInternal, "transfer failed: %v", err)
	}

	if err := s.Bookings.MarkPayoutPaid(ctx, b.ID, transferID, now); err != nil {
		// The transfer went out; surface loudly rather than retry it.
		s.Logger.Error("transfer issued but payout record failed",
			zap.String("booking", b.ID),
			zap.String("transfer", transferID),
			zap.Error(err),
		)
		return nil, Errorf(KindInternal, "failed to record payout: %v", err)
	}

	s.Logger.Info("payout released",
		zap.String("booking", b.ID),
		zap.String("transfer", transferID),
		zap.Int64("amount", b.SellerNetAmount),
	)
	if s.Notifier != nil {
		s.Notifier.NotifyPayoutReleased(ctx, b)
	}
	return &models.PayoutResult{TransferID: transferID}, nil
}

// RunPayouts is one scheduler tick: it scans completed, paid, not-yet-settled
// bookings (bounded to the batch size) and releases each seller payout.
// Failures are logged and retried on the next tick, never dropped.
func (s *DefaultBookingService) RunPayouts(ctx context.Context, now time.Time) (PayoutRunStats, error) {
	var stats PayoutRunStats

	batch := s.PayoutBatchSize
	if batch <= 0 {
		batch = 100
	}
	candidates, err := s.Bookings.PayoutCandidates(ctx, batch)
	if err != nil {
		return stats, Errorf(KindInternal, "failed to query payout candidates: %v", err)
	}

	for i := range candidates {
		b := &candidates[i]
		stats.Examined++

		if ok, reason := s.payoutEligible(b, now); !ok {
			stats.Skipped++
			s.Logger.Debug("skipping payout candidate",
				zap.String("booking", b.ID), zap.String("reason", reason))
			continue
		}

		if _, err := s.settle(ctx, b, now); err != nil {
			if KindOf(err) == KindFailedPrecondition {
				// Claimed by a concurrent run.
				stats.Skipped++
				continue
			}
			stats.Failed++
			s.Logger.Error("payout failed, will retry on next run",
				zap.String("booking", b.ID), zap.Error(err))
			continue
		}
		stats.Paid++
	}

	s.Logger.Info("payout run finished",
		zap.Int("examined", stats.Examined),
		zap.Int("paid", stats.Paid),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// RequestPayout is the provider-facing manual trigger. It shares eligibility
// and settlement with the scheduler, so the two are idempotent together.
func (s *DefaultBookingService) RequestPayout(ctx context.Context, caller Caller, bookingID string) (*models.PayoutResult, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if caller.ID != b.ProviderID && !caller.IsAdmin() {
		return nil, NewError(KindPermissionDenied, "only the provider may request this payout")
	}

	if b.PayoutStatus == models.PayoutPaid {
		return &models.PayoutResult{TransferID: b.TransferRef, AlreadyDone: true}, nil
	}

	now := s.now()
	if ok, reason := s.payoutEligible(b, now); !ok {
		return nil, NewError(KindFailedPrecondition, reason)
	}
	return s.settle(ctx, b, now)
}
