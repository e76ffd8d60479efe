package booking

import (
	"context"
	"errors"
	"strconv"

	providerRepo "guidely/database/repository/provider"
	"guidely/models"
	"guidely/services/payment"

	"go.uber.org/zap"
)

// applicationFee computes the platform cut with half-up rounding; the rounding
// cent goes to the platform.
func applicationFee(amount int64, percent int) int64 {
	return (amount*int64(percent) + 50) / 100
}

// CreatePaymentIntent creates or reuses a charge authorization for the booking.
// If the booking already carries an intent, the stored one is returned
// unchanged; this is what keeps client retries from producing a second charge.
// Funds stay on the platform until the payout scheduler runs.
func (s *DefaultBookingService) CreatePaymentIntent(ctx context.Context, caller Caller, bookingID string) (*models.PaymentIntentResult, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if caller.ID != b.BuyerID {
		return nil, NewError(KindPermissionDenied, "only the buyer may pay for this booking")
	}

	if b.PaymentIntentID != "" && b.ClientSecret != "" {
		return &models.PaymentIntentResult{
			PaymentIntentID:      b.PaymentIntentID,
			ClientSecret:         b.ClientSecret,
			Amount:               b.Amount,
			Currency:             b.Currency,
			CommissionPercent:    b.CommissionPercent,
			ApplicationFeeAmount: b.ApplicationFeeAmount,
			SellerNetAmount:      b.SellerNetAmount,
		}, nil
	}

	if b.Status != models.BookingPendingPayment && b.Status != models.BookingPaymentFailed {
		return nil, Errorf(KindFailedPrecondition, "booking is %s, cannot create a payment intent", b.Status)
	}

	prov, err := s.Providers.GetByID(ctx, b.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, Errorf(KindNotFound, "provider %s not found", b.ProviderID)
		}
		return nil, Errorf(KindInternal, "failed to load provider: %v", err)
	}
	if prov.StripeAccountID == "" {
		return nil, NewError(KindFailedPrecondition, "seller has not completed payout setup")
	}

	commissionPercent := prov.Tier.CommissionPercent()
	fee := applicationFee(b.Amount, commissionPercent)
	net := b.Amount - fee

	intent, err := s.Gateway.CreatePaymentIntent(ctx, payment.IntentParams{
		Amount:        b.Amount,
		Currency:      b.Currency,
		TransferGroup: b.ID,
		Metadata: map[string]string{
			"bookingId":         b.ID,
			"buyerId":           b.BuyerID,
			"providerId":        b.ProviderID,
			"destination":       prov.StripeAccountID,
			"commissionPercent": strconv.Itoa(commissionPercent),
			"applicationFee":    strconv.FormatInt(fee, 10),
			"sellerNet":         strconv.FormatInt(net, 10),
		},
	})
	if err != nil {
		return nil, Errorf(KindInternal, "payment processor error: %v", err)
	}

	fields := map[string]interface{}{
		"paymentIntentId":      intent.ID,
		"clientSecret":         intent.ClientSecret,
		"commissionPercent":    commissionPercent,
		"applicationFeeAmount": fee,
		"sellerNetAmount":      net,
		"status":               models.BookingPaymentIntentCreated,
	}
	if err := s.Bookings.UpdateFields(ctx, b.ID, fields); err != nil {
		return nil, Errorf(KindInternal, "failed to persist payment intent: %v", err)
	}

	s.Logger.Info("payment intent created",
		zap.String("booking", b.ID),
		zap.String("paymentIntent", intent.ID),
		zap.Int("commissionPercent", commissionPercent),
		zap.Int64("applicationFee", fee),
	)

	return &models.PaymentIntentResult{
		PaymentIntentID:      intent.ID,
		ClientSecret:         intent.ClientSecret,
		Amount:               b.Amount,
		Currency:             b.Currency,
		CommissionPercent:    commissionPercent,
		ApplicationFeeAmount: fee,
		SellerNetAmount:      net,
	}, nil
}
