package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"guidely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlot() *models.AvailabilitySlot {
	return &models.AvailabilitySlot{
		ID:          "slot-1",
		ProviderID:  "prov-1",
		ListingType: "tour",
		ListingID:   "lst-1",
		Start:       testNow.Add(72 * time.Hour),
		End:         testNow.Add(75 * time.Hour),
	}
}

func testReserveInput() ReserveInput {
	return ReserveInput{
		ListingType: "tour",
		ListingID:   "lst-1",
		ProviderID:  "prov-1",
		SlotID:      "slot-1",
		Start:       testNow.Add(72 * time.Hour),
		End:         testNow.Add(75 * time.Hour),
		Amount:      10000,
		Currency:    "eur",
		PeopleCount: 2,
	}
}

func TestReserveSlot(t *testing.T) {
	env := newTestEnv()
	env.bookings.addSlot(testSlot())

	b, err := env.svc.ReserveSlot(context.Background(), Caller{ID: "buyer-1", Role: "user"}, testReserveInput())
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingPendingPayment, b.Status)
	assert.Equal(t, models.PayoutNotScheduled, b.PayoutStatus)
	assert.Equal(t, "buyer-1", b.BuyerID)
	assert.Equal(t, testNow, b.CreatedAt)

	slot := env.bookings.slot("slot-1")
	assert.True(t, slot.Reserved)
	assert.Equal(t, b.ID, slot.BookingRef)
	assert.Equal(t, "buyer-1", slot.ReservedBy)
}

func TestReserveSlotValidation(t *testing.T) {
	env := newTestEnv()
	env.bookings.addSlot(testSlot())
	caller := Caller{ID: "buyer-1", Role: "user"}

	cases := []struct {
		name   string
		mutate func(*ReserveInput)
	}{
		{"zero amount", func(in *ReserveInput) { in.Amount = 0 }},
		{"negative amount", func(in *ReserveInput) { in.Amount = -500 }},
		{"bad currency", func(in *ReserveInput) { in.Currency = "euro" }},
		{"zero people", func(in *ReserveInput) { in.PeopleCount = 0 }},
		{"unknown listing type", func(in *ReserveInput) { in.ListingType = "rental" }},
		{"end before start", func(in *ReserveInput) { in.End = in.Start.Add(-time.Hour) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := testReserveInput()
			tc.mutate(&in)
			_, err := env.svc.ReserveSlot(context.Background(), caller, in)
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestReserveSlotNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ReserveSlot(context.Background(), Caller{ID: "buyer-1", Role: "user"}, testReserveInput())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestReserveSlotOwnerMismatch(t *testing.T) {
	env := newTestEnv()
	env.bookings.addSlot(testSlot())

	in := testReserveInput()
	in.ProviderID = "prov-other"
	_, err := env.svc.ReserveSlot(context.Background(), Caller{ID: "buyer-1", Role: "user"}, in)
	require.Error(t, err)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestReserveSlotAlreadyReserved(t *testing.T) {
	env := newTestEnv()
	env.bookings.addSlot(testSlot())
	caller := Caller{ID: "buyer-1", Role: "user"}

	_, err := env.svc.ReserveSlot(context.Background(), caller, testReserveInput())
	require.NoError(t, err)

	_, err = env.svc.ReserveSlot(context.Background(), Caller{ID: "buyer-2", Role: "user"}, testReserveInput())
	require.Error(t, err)
	assert.Equal(t, KindFailedPrecondition, KindOf(err))
}

// Exactly one of many concurrent reservations for the same slot may win.
func TestReserveSlotConcurrent(t *testing.T) {
	env := newTestEnv()
	env.bookings.addSlot(testSlot())

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := Caller{ID: "buyer-1", Role: "user"}
			_, errs[i] = env.svc.ReserveSlot(context.Background(), caller, testReserveInput())
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.Equal(t, KindFailedPrecondition, KindOf(err))
		}
	}
	assert.Equal(t, 1, won)
	assert.True(t, env.bookings.slot("slot-1").Reserved)
}
