package booking

import (
	"context"
	"encoding/json"
	"errors"

	"guidely/config"
	providerRepo "guidely/database/repository/provider"
	"guidely/models"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// HandlePaymentEvent applies an already signature-verified processor event.
// Events may arrive duplicated and out of order, so every branch is a
// conditional write that is safe to repeat. Unknown event types are no-ops.
func (s *DefaultBookingService) HandlePaymentEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		return s.applyChargeSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.applyChargeFailed(ctx, event)
	case "checkout.session.completed":
		return s.applyCheckoutCompleted(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		return s.applySubscriptionChange(ctx, event)
	case "customer.subscription.deleted":
		return s.applySubscriptionDeleted(ctx, event)
	default:
		s.Logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *DefaultBookingService) applyChargeSucceeded(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return Errorf(KindInvalidArgument, "malformed payment_intent payload: %v", err)
	}
	bookingID := pi.Metadata["bookingId"]
	if bookingID == "" {
		return NewError(KindInvalidArgument, "payment_intent event missing bookingId metadata")
	}

	chargeRef := ""
	if pi.LatestCharge != nil {
		chargeRef = pi.LatestCharge.ID
	}
	destination := pi.Metadata["destination"]

	if err := s.Bookings.MarkChargeSucceeded(ctx, bookingID, chargeRef, destination, s.now()); err != nil {
		return Errorf(KindInternal, "failed to apply charge success: %v", err)
	}
	s.Logger.Info("booking paid",
		zap.String("booking", bookingID),
		zap.String("charge", chargeRef),
	)

	if s.Notifier != nil {
		if b, err := s.Bookings.GetByID(ctx, bookingID); err == nil {
			s.Notifier.NotifyBookingPaid(ctx, b)
		}
	}
	return nil
}

func (s *DefaultBookingService) applyChargeFailed(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return Errorf(KindInvalidArgument, "malformed payment_intent payload: %v", err)
	}
	bookingID := pi.Metadata["bookingId"]
	if bookingID == "" {
		return NewError(KindInvalidArgument, "payment_intent event missing bookingId metadata")
	}

	if err := s.Bookings.MarkPaymentFailed(ctx, bookingID); err != nil {
		return Errorf(KindInternal, "failed to apply charge failure: %v", err)
	}
	s.Logger.Warn("payment failed", zap.String("booking", bookingID))
	return nil
}

func (s *DefaultBookingService) applyCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return Errorf(KindInvalidArgument, "malformed checkout.session payload: %v", err)
	}
	bookingID := sess.Metadata["bookingId"]
	if bookingID == "" {
		// Checkout sessions for subscriptions carry no booking reference.
		return nil
	}

	if err := s.Bookings.MarkConfirmed(ctx, bookingID); err != nil {
		return Errorf(KindInternal, "failed to confirm booking: %v", err)
	}
	s.Logger.Info("booking confirmed", zap.String("booking", bookingID))
	return nil
}

func tierForPrice(priceID string) models.CommissionTier {
	switch priceID {
	case config.AppConfig.StripePriceIDPro:
		return models.TierPro
	case config.AppConfig.StripePriceIDElite:
		return models.TierElite
	default:
		return models.TierFree
	}
}

func (s *DefaultBookingService) applySubscriptionChange(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return Errorf(KindInvalidArgument, "malformed subscription payload: %v", err)
	}
	if sub.Customer == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return NewError(KindInvalidArgument, "subscription event missing customer or price")
	}

	tier := tierForPrice(sub.Items.Data[0].Price.ID)
	if err := s.Providers.UpdateTierByCustomer(ctx, sub.Customer.ID, tier); err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			s.Logger.Warn("subscription event for unknown customer", zap.String("customer", sub.Customer.ID))
			return nil
		}
		return Errorf(KindInternal, "failed to update commission tier: %v", err)
	}
	s.Logger.Info("commission tier updated",
		zap.String("customer", sub.Customer.ID),
		zap.String("tier", string(tier)),
	)
	return nil
}

func (s *DefaultBookingService) applySubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return Errorf(KindInvalidArgument, "malformed subscription payload: %v", err)
	}
	if sub.Customer == nil {
		return NewError(KindInvalidArgument, "subscription event missing customer")
	}

	if err := s.Providers.UpdateTierByCustomer(ctx, sub.Customer.ID, models.TierFree); err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil
		}
		return Errorf(KindInternal, "failed to reset commission tier: %v", err)
	}
	s.Logger.Info("commission tier reset to free", zap.String("customer", sub.Customer.ID))
	return nil
}
