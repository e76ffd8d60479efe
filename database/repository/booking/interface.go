package bookingRepo

import (
	"context"
	"errors"
	"time"

	"guidely/models"
)

// Sentinel errors surfaced by the transactional operations. The service layer
// maps them onto its caller-facing error kinds.
var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotOwnerMismatch = errors.New("slot does not belong to provider")
	ErrSlotReserved      = errors.New("slot already reserved")
)

// BookingRepository persists bookings and owns every multi-document mutation
// that touches a booking together with its availability slot.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByBuyer(ctx context.Context, buyerID string, limit int64) ([]models.Booking, error)

	// ReserveSlot atomically marks the slot reserved and inserts the booking.
	// This is the sole serialization point preventing double-booking.
	ReserveSlot(ctx context.Context, providerID string, booking *models.Booking) error

	// UpdateFields applies a partial update to a booking document.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// MarkChargeSucceeded is a merge that is safe to repeat: it advances the
	// booking to paid_hold and records the charge snapshot, skipping bookings
	// already confirmed or canceled.
	MarkChargeSucceeded(ctx context.Context, id, chargeRef, payoutDestination string, paidAt time.Time) error

	// MarkPaymentFailed moves a not-yet-paid booking to payment_failed.
	MarkPaymentFailed(ctx context.Context, id string) error

	// MarkConfirmed promotes a paid_hold booking to confirmed.
	MarkConfirmed(ctx context.Context, id string) error

	// CancelAndReleaseSlot atomically records the cancellation on the booking
	// and releases its slot back to available.
	CancelAndReleaseSlot(ctx context.Context, b *models.Booking, status models.BookingStatus, refundPercent int, refundRef string, at time.Time) error

	// PayoutCandidates returns paid bookings whose payout has not settled,
	// bounded to limit.
	PayoutCandidates(ctx context.Context, limit int64) ([]models.Booking, error)

	// ClaimPayout compare-and-sets payoutStatus from not_scheduled to pending.
	// It returns false when another run already claimed or settled the booking.
	ClaimPayout(ctx context.Context, id string) (bool, error)

	MarkPayoutPaid(ctx context.Context, id, transferRef string, at time.Time) error

	// RevertPayout returns a pending payout to not_scheduled so the next
	// scheduled run retries it.
	RevertPayout(ctx context.Context, id string) error
}
