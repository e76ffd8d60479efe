package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"guidely/config"
	"guidely/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentEvent(eventType, bookingID string) stripe.Event {
	payload := fmt.Sprintf(`{
		"id": "pi_1",
		"object": "payment_intent",
		"latest_charge": "ch_1",
		"metadata": {"bookingId": %q, "destination": "acct_1"}
	}`, bookingID)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
}

// intentCreatedBooking seeds a booking waiting for its charge to settle.
func intentCreatedBooking(t *testing.T, env *testEnv) *models.Booking {
	t.Helper()
	b := reserve(t, env, models.TierFree, 10000)
	_, err := env.svc.CreatePaymentIntent(context.Background(), Caller{ID: "buyer-1", Role: "user"}, b.ID)
	require.NoError(t, err)
	return env.bookings.booking(b.ID)
}

func TestHandleChargeSucceeded(t *testing.T) {
	env := newTestEnv()
	b := intentCreatedBooking(t, env)

	err := env.svc.HandlePaymentEvent(context.Background(), paymentEvent("payment_intent.succeeded", b.ID))
	require.NoError(t, err)

	stored := env.bookings.booking(b.ID)
	assert.Equal(t, models.BookingPaidHold, stored.Status)
	assert.Equal(t, "ch_1", stored.ChargeRef)
	assert.Equal(t, "acct_1", stored.PayoutDestination)
	assert.Equal(t, testNow, stored.PaidAt)
}

// Processors redeliver events; a replayed success must not disturb the booking.
func TestHandleChargeSucceededReplay(t *testing.T) {
	env := newTestEnv()
	b := intentCreatedBooking(t, env)
	event := paymentEvent("payment_intent.succeeded", b.ID)

	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
	require.NoError(t, env.bookings.MarkConfirmed(context.Background(), b.ID))

	// Late redelivery after the booking moved on.
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
	assert.Equal(t, models.BookingConfirmed, env.bookings.booking(b.ID).Status)
}

func TestHandleChargeSucceededAfterCancel(t *testing.T) {
	env := newTestEnv()
	b := intentCreatedBooking(t, env)

	_, err := env.svc.CancelBooking(context.Background(), Caller{ID: "buyer-1", Role: "user"}, b.ID)
	require.NoError(t, err)

	// An out-of-order success for a canceled booking is dropped.
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), paymentEvent("payment_intent.succeeded", b.ID)))
	assert.Equal(t, models.BookingCanceled, env.bookings.booking(b.ID).Status)
}

func TestHandleChargeFailed(t *testing.T) {
	env := newTestEnv()
	b := intentCreatedBooking(t, env)

	err := env.svc.HandlePaymentEvent(context.Background(), paymentEvent("payment_intent.payment_failed", b.ID))
	require.NoError(t, err)
	assert.Equal(t, models.BookingPaymentFailed, env.bookings.booking(b.ID).Status)

	// A failure arriving after the charge settled does not regress the booking.
	require.NoError(t, env.bookings.MarkChargeSucceeded(context.Background(), b.ID, "ch_1", "acct_1", testNow))
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), paymentEvent("payment_intent.payment_failed", b.ID)))
	assert.Equal(t, models.BookingPaidHold, env.bookings.booking(b.ID).Status)
}

func TestHandleEventMissingBookingID(t *testing.T) {
	env := newTestEnv()

	err := env.svc.HandlePaymentEvent(context.Background(), paymentEvent("payment_intent.succeeded", ""))
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestHandleUnknownEventIgnored(t *testing.T) {
	env := newTestEnv()

	event := stripe.Event{
		Type: "balance.available",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}
	assert.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
}

func TestHandleCheckoutCompleted(t *testing.T) {
	env := newTestEnv()
	b := intentCreatedBooking(t, env)
	require.NoError(t, env.bookings.MarkChargeSucceeded(context.Background(), b.ID, "ch_1", "acct_1", testNow))

	payload := fmt.Sprintf(`{"id": "cs_1", "metadata": {"bookingId": %q}}`, b.ID)
	event := stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
	assert.Equal(t, models.BookingConfirmed, env.bookings.booking(b.ID).Status)
}

func subscriptionEvent(eventType, customerID, priceID string) stripe.Event {
	payload := fmt.Sprintf(`{
		"id": "sub_1",
		"customer": %q,
		"items": {"data": [{"price": {"id": %q}}]}
	}`, customerID, priceID)
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(payload)},
	}
}

func TestHandleSubscriptionLifecycle(t *testing.T) {
	config.AppConfig.StripePriceIDPro = "price_pro"
	config.AppConfig.StripePriceIDElite = "price_elite"
	defer func() {
		config.AppConfig.StripePriceIDPro = ""
		config.AppConfig.StripePriceIDElite = ""
	}()

	env := newTestEnv()
	env.providers.add(testProvider(models.TierFree))

	err := env.svc.HandlePaymentEvent(context.Background(), subscriptionEvent("customer.subscription.created", "cus_1", "price_pro"))
	require.NoError(t, err)
	prov, err := env.providers.GetByID(context.Background(), "prov-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, prov.Tier)

	err = env.svc.HandlePaymentEvent(context.Background(), subscriptionEvent("customer.subscription.updated", "cus_1", "price_elite"))
	require.NoError(t, err)
	prov, _ = env.providers.GetByID(context.Background(), "prov-1")
	assert.Equal(t, models.TierElite, prov.Tier)

	deleted := stripe.Event{
		Type: "customer.subscription.deleted",
		Data: &stripe.EventData{Raw: json.RawMessage(`{"id": "sub_1", "customer": "cus_1"}`)},
	}
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), deleted))
	prov, _ = env.providers.GetByID(context.Background(), "prov-1")
	assert.Equal(t, models.TierFree, prov.Tier)
}

// Events for customers we never onboarded are logged and dropped.
func TestHandleSubscriptionUnknownCustomer(t *testing.T) {
	env := newTestEnv()

	err := env.svc.HandlePaymentEvent(context.Background(), subscriptionEvent("customer.subscription.updated", "cus_missing", "price_pro"))
	assert.NoError(t, err)
}
