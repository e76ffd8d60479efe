package booking

import (
	"context"
	"time"

	"guidely/models"

	"github.com/stripe/stripe-go/v76"
)

// Caller is the verified identity an operation runs as.
type Caller struct {
	ID   string
	Role string // "user", "provider", or "admin"
}

func (c Caller) IsAdmin() bool { return c.Role == "admin" }

// ReserveInput carries the validated parameters for a slot reservation.
type ReserveInput struct {
	ListingType string
	ListingID   string
	ProviderID  string
	SlotID      string
	Start       time.Time
	End         time.Time
	Amount      int64
	Currency    string
	PeopleCount int
}

// PayoutRunStats summarizes one payout scheduler run.
type PayoutRunStats struct {
	Examined int
	Paid     int
	Skipped  int
	Failed   int
}

// BookingService is the transactional core of the marketplace: reservation,
// payment orchestration, webhook ingestion, cancellation, and payouts.
type BookingService interface {
	ReserveSlot(ctx context.Context, caller Caller, input ReserveInput) (*models.Booking, error)
	CreatePaymentIntent(ctx context.Context, caller Caller, bookingID string) (*models.PaymentIntentResult, error)
	CancelBooking(ctx context.Context, caller Caller, bookingID string) (*models.CancelResult, error)
	AdminOverrideCancel(ctx context.Context, caller Caller, bookingID string, refundPercent int) (*models.CancelResult, error)
	RequestPayout(ctx context.Context, caller Caller, bookingID string) (*models.PayoutResult, error)
	RunPayouts(ctx context.Context, now time.Time) (PayoutRunStats, error)
	HandlePaymentEvent(ctx context.Context, event stripe.Event) error
	GetBooking(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, caller Caller) ([]models.Booking, error)
}
