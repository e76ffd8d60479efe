package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
)

// IntentParams describes a charge authorization to create. Metadata must carry
// the booking, buyer, seller, and commission snapshot: the webhook handler and
// refund engine read it later, and the charge is immutable once created.
type IntentParams struct {
	Amount        int64
	Currency      string
	TransferGroup string
	Metadata      map[string]string
}

// IntentResult is the created (or pre-existing) charge authorization.
type IntentResult struct {
	ID           string
	ClientSecret string
}

// TransferParams describes a payout transfer sourced from an existing charge,
// so the funds provably originate from that charge.
type TransferParams struct {
	Amount        int64
	Currency      string
	Destination   string
	SourceCharge  string
	TransferGroup string
	Metadata      map[string]string
}

// Gateway wraps the external payment processor's money operations and its
// webhook signature verification.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*IntentResult, error)
	RefundCharge(ctx context.Context, chargeID string, amount int64) (string, error)
	Transfer(ctx context.Context, params TransferParams) (string, error)
	ReverseTransfer(ctx context.Context, transferID string) error
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}
