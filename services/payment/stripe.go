package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"github.com/stripe/stripe-go/v76/transferreversal"
	"github.com/stripe/stripe-go/v76/transfer"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway on Stripe. Charges are held on the platform
// balance and moved to sellers with separate transfers after service delivery
// (the separate charge-and-transfer pattern), never as destination charges.
type StripeGateway struct {
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeGateway(webhookSecret string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, params IntentParams) (*IntentResult, error) {
	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.TransferGroup != "" {
		piParams.TransferGroup = stripe.String(params.TransferGroup)
	}
	piParams.Context = ctx
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("created payment intent",
		zap.String("paymentIntent", pi.ID),
		zap.Int64("amount", params.Amount),
		zap.String("currency", params.Currency),
	)
	return &IntentResult{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) RefundCharge(ctx context.Context, chargeID string, amount int64) (string, error) {
	params := &stripe.RefundParams{
		Charge: stripe.String(chargeID),
		Amount: stripe.Int64(amount),
	}
	params.Context = ctx

	ref, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to refund charge %s: %w", chargeID, err)
	}

	g.logger.Info("issued refund",
		zap.String("charge", chargeID),
		zap.String("refund", ref.ID),
		zap.Int64("amount", amount),
	)
	return ref.ID, nil
}

func (g *StripeGateway) Transfer(ctx context.Context, params TransferParams) (string, error) {
	trParams := &stripe.TransferParams{
		Amount:            stripe.Int64(params.Amount),
		Currency:          stripe.String(params.Currency),
		Destination:       stripe.String(params.Destination),
		SourceTransaction: stripe.String(params.SourceCharge),
	}
	if params.TransferGroup != "" {
		trParams.TransferGroup = stripe.String(params.TransferGroup)
	}
	trParams.Context = ctx
	for k, v := range params.Metadata {
		trParams.AddMetadata(k, v)
	}

	tr, err := transfer.New(trParams)
	if err != nil {
		return "", fmt.Errorf("stripe: failed to create transfer: %w", err)
	}

	g.logger.Info("created transfer",
		zap.String("transfer", tr.ID),
		zap.String("destination", params.Destination),
		zap.Int64("amount", params.Amount),
	)
	return tr.ID, nil
}

func (g *StripeGateway) ReverseTransfer(ctx context.Context, transferID string) error {
	params := &stripe.TransferReversalParams{
		ID: stripe.String(transferID),
	}
	params.Context = ctx

	rev, err := transferreversal.New(params)
	if err != nil {
		return fmt.Errorf("stripe: failed to reverse transfer %s: %w", transferID, err)
	}

	g.logger.Info("reversed transfer",
		zap.String("transfer", transferID),
		zap.String("reversal", rev.ID),
	)
	return nil
}

// ConstructEvent verifies the webhook signature against the shared secret and
// parses the event. Verification failure must fail closed.
func (g *StripeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}
