package booking

import (
	"context"
	"testing"

	"guidely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(tier models.CommissionTier) *models.Provider {
	return &models.Provider{
		ID:               "prov-1",
		Role:             models.RoleTourGuide,
		Tier:             tier,
		StripeAccountID:  "acct_1",
		StripeCustomerID: "cus_1",
	}
}

// reserve seeds a slot, the provider, and a fresh pending_payment booking.
func reserve(t *testing.T, env *testEnv, tier models.CommissionTier, amount int64) *models.Booking {
	t.Helper()
	env.bookings.addSlot(testSlot())
	env.providers.add(testProvider(tier))

	in := testReserveInput()
	in.Amount = amount
	b, err := env.svc.ReserveSlot(context.Background(), Caller{ID: "buyer-1", Role: "user"}, in)
	require.NoError(t, err)
	return b
}

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierFree, 10000)
	buyer := Caller{ID: "buyer-1", Role: "user"}

	res, err := env.svc.CreatePaymentIntent(context.Background(), buyer, b.ID)
	require.NoError(t, err)

	assert.Equal(t, "pi_1", res.PaymentIntentID)
	assert.NotEmpty(t, res.ClientSecret)
	assert.Equal(t, int64(10000), res.Amount)
	assert.Equal(t, 15, res.CommissionPercent)
	assert.Equal(t, int64(1500), res.ApplicationFeeAmount)
	assert.Equal(t, int64(8500), res.SellerNetAmount)

	stored := env.bookings.booking(b.ID)
	assert.Equal(t, models.BookingPaymentIntentCreated, stored.Status)
	assert.Equal(t, "pi_1", stored.PaymentIntentID)
}

// Retrying after an intent exists must return the stored intent unchanged and
// never touch the payment processor again.
func TestCreatePaymentIntentIdempotent(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierPro, 10000)
	buyer := Caller{ID: "buyer-1", Role: "user"}

	first, err := env.svc.CreatePaymentIntent(context.Background(), buyer, b.ID)
	require.NoError(t, err)
	second, err := env.svc.CreatePaymentIntent(context.Background(), buyer, b.ID)
	require.NoError(t, err)

	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)
	assert.Equal(t, first.ClientSecret, second.ClientSecret)
	assert.Equal(t, first.ApplicationFeeAmount, second.ApplicationFeeAmount)
	assert.Equal(t, 1, env.gateway.intents)
}

func TestCommissionTierSplit(t *testing.T) {
	cases := []struct {
		tier    models.CommissionTier
		amount  int64
		fee     int64
		percent int
	}{
		{models.TierFree, 10000, 1500, 15},
		{models.TierPro, 10000, 1000, 10},
		{models.TierElite, 10000, 500, 5},
		// Half-up rounding: the odd cent goes to the platform.
		{models.TierFree, 1001, 150, 15},
		{models.TierElite, 1010, 51, 5},
		{models.TierPro, 5, 1, 10},
	}
	for _, tc := range cases {
		env := newTestEnv()
		b := reserve(t, env, tc.tier, tc.amount)

		res, err := env.svc.CreatePaymentIntent(context.Background(), Caller{ID: "buyer-1", Role: "user"}, b.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.percent, res.CommissionPercent)
		assert.Equal(t, tc.fee, res.ApplicationFeeAmount, "tier %s amount %d", tc.tier, tc.amount)
		assert.Equal(t, tc.amount, res.ApplicationFeeAmount+res.SellerNetAmount, "fee and net must sum to the total")
	}
}

func TestCreatePaymentIntentOnlyBuyer(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierFree, 10000)

	_, err := env.svc.CreatePaymentIntent(context.Background(), Caller{ID: "prov-1", Role: "provider"}, b.ID)
	require.Error(t, err)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestCreatePaymentIntentRequiresOnboardedSeller(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierFree, 10000)

	prov := testProvider(models.TierFree)
	prov.StripeAccountID = ""
	env.providers.add(prov)

	_, err := env.svc.CreatePaymentIntent(context.Background(), Caller{ID: "buyer-1", Role: "user"}, b.ID)
	require.Error(t, err)
	assert.Equal(t, KindFailedPrecondition, KindOf(err))
	assert.Equal(t, 0, env.gateway.intents)
}

func TestCreatePaymentIntentRejectsWrongStatus(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierFree, 10000)

	require.NoError(t, env.bookings.UpdateFields(context.Background(), b.ID, map[string]interface{}{
		"status": models.BookingCanceled,
	}))

	_, err := env.svc.CreatePaymentIntent(context.Background(), Caller{ID: "buyer-1", Role: "user"}, b.ID)
	require.Error(t, err)
	assert.Equal(t, KindFailedPrecondition, KindOf(err))
}

// A failed payment leaves the booking retryable with a fresh intent.
func TestCreatePaymentIntentAfterFailure(t *testing.T) {
	env := newTestEnv()
	b := reserve(t, env, models.TierFree, 10000)
	buyer := Caller{ID: "buyer-1", Role: "user"}

	_, err := env.svc.CreatePaymentIntent(context.Background(), buyer, b.ID)
	require.NoError(t, err)

	// Processor reports the charge failed; the stored intent is cleared so the
	// buyer can try again.
	require.NoError(t, env.bookings.MarkPaymentFailed(context.Background(), b.ID))
	require.NoError(t, env.bookings.UpdateFields(context.Background(), b.ID, map[string]interface{}{
		"paymentIntentId": "",
		"clientSecret":    "",
	}))

	res, err := env.svc.CreatePaymentIntent(context.Background(), buyer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_2", res.PaymentIntentID)
}

func TestApplicationFeeRounding(t *testing.T) {
	assert.Equal(t, int64(1500), applicationFee(10000, 15))
	assert.Equal(t, int64(150), applicationFee(1001, 15)) // 150.15 rounds down
	assert.Equal(t, int64(151), applicationFee(1005, 15)) // 150.75 rounds up
	assert.Equal(t, int64(1), applicationFee(5, 10))      // 0.5 rounds up
	assert.Equal(t, int64(0), applicationFee(4, 10))      // 0.4 rounds down
}
