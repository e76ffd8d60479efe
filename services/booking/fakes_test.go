package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingRepo "guidely/database/repository/booking"
	listingRepo "guidely/database/repository/listing"
	providerRepo "guidely/database/repository/provider"
	"guidely/models"
	"guidely/services/payment"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

// fakeBookingRepo is an in-memory BookingRepository with the same conditional
// semantics as the Mongo implementation. ReserveSlot holds the lock for the
// whole read-check-write sequence, mirroring the store transaction.
type fakeBookingRepo struct {
	mu       sync.Mutex
	slots    map[string]*models.AvailabilitySlot
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		slots:    make(map[string]*models.AvailabilitySlot),
		bookings: make(map[string]*models.Booking),
	}
}

func (r *fakeBookingRepo) addSlot(s *models.AvailabilitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.ID] = s
}

func (r *fakeBookingRepo) addBooking(b *models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
}

func (r *fakeBookingRepo) booking(id string) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.bookings[id]
	return &cp
}

func (r *fakeBookingRepo) slot(id string) *models.AvailabilitySlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.slots[id]
	return &cp
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListByBuyer(ctx context.Context, buyerID string, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.BuyerID == buyerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ReserveSlot(ctx context.Context, providerID string, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[booking.SlotID]
	if !ok {
		return bookingRepo.ErrSlotNotFound
	}
	if slot.ProviderID != providerID {
		return bookingRepo.ErrSlotOwnerMismatch
	}
	if slot.Reserved {
		return bookingRepo.ErrSlotReserved
	}
	slot.Reserved = true
	slot.BookingRef = booking.ID
	slot.ReservedBy = booking.BuyerID
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	for k, v := range fields {
		switch k {
		case "paymentIntentId":
			b.PaymentIntentID = v.(string)
		case "clientSecret":
			b.ClientSecret = v.(string)
		case "commissionPercent":
			b.CommissionPercent = v.(int)
		case "applicationFeeAmount":
			b.ApplicationFeeAmount = v.(int64)
		case "sellerNetAmount":
			b.SellerNetAmount = v.(int64)
		case "status":
			b.Status = v.(models.BookingStatus)
		default:
			panic(fmt.Sprintf("fakeBookingRepo: unhandled field %q", k))
		}
	}
	return nil
}

func (r *fakeBookingRepo) MarkChargeSucceeded(ctx context.Context, id, chargeRef, payoutDestination string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil
	}
	if b.Status == models.BookingConfirmed || b.Status.IsCanceled() {
		return nil
	}
	b.Status = models.BookingPaidHold
	b.ChargeRef = chargeRef
	b.PayoutDestination = payoutDestination
	b.PaidAt = paidAt
	return nil
}

func (r *fakeBookingRepo) MarkPaymentFailed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil
	}
	if b.Status == models.BookingPendingPayment || b.Status == models.BookingPaymentIntentCreated {
		b.Status = models.BookingPaymentFailed
	}
	return nil
}

func (r *fakeBookingRepo) MarkConfirmed(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil
	}
	if b.Status == models.BookingPaidHold {
		b.Status = models.BookingConfirmed
	}
	return nil
}

func (r *fakeBookingRepo) CancelAndReleaseSlot(ctx context.Context, b *models.Booking, status models.BookingStatus, refundPercent int, refundRef string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	stored.Status = status
	stored.RefundPercent = refundPercent
	stored.CanceledAt = at
	if refundRef != "" {
		stored.RefundRef = refundRef
	}
	if slot, ok := r.slots[b.SlotID]; ok && slot.BookingRef == b.ID {
		slot.Reserved = false
		slot.BookingRef = ""
		slot.ReservedBy = ""
	}
	return nil
}

func (r *fakeBookingRepo) PayoutCandidates(ctx context.Context, limit int64) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status.IsPaid() && (b.PayoutStatus == models.PayoutNotScheduled || b.PayoutStatus == models.PayoutPending) {
			out = append(out, *b)
			if int64(len(out)) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ClaimPayout(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.PayoutStatus != models.PayoutNotScheduled {
		return false, nil
	}
	b.PayoutStatus = models.PayoutPending
	return true, nil
}

func (r *fakeBookingRepo) MarkPayoutPaid(ctx context.Context, id, transferRef string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.PayoutStatus != models.PayoutPending {
		return bookingRepo.ErrBookingNotFound
	}
	b.PayoutStatus = models.PayoutPaid
	b.TransferRef = transferRef
	b.PaidOutAt = at
	return nil
}

func (r *fakeBookingRepo) RevertPayout(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil
	}
	if b.PayoutStatus == models.PayoutPending {
		b.PayoutStatus = models.PayoutNotScheduled
	}
	return nil
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{providers: make(map[string]*models.Provider)}
}

func (r *fakeProviderRepo) add(p *models.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = p
}

func (r *fakeProviderRepo) Create(ctx context.Context, p *models.Provider) error {
	r.add(p)
	return nil
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProviderRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *fakeProviderRepo) UpdateTierByCustomer(ctx context.Context, customerID string, tier models.CommissionTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.StripeCustomerID == customerID {
			p.Tier = tier
			return nil
		}
	}
	return providerRepo.ErrProviderNotFound
}

type fakeListingRepo struct {
	listings map[string]*models.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*models.Listing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, l *models.Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, listingRepo.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

// fakeGateway counts money operations and can be told to fail transfers.
type fakeGateway struct {
	mu           sync.Mutex
	intents      int
	refunds      []int64
	transfers    int
	reversals    []string
	failTransfer bool
	failReversal bool
}

func (g *fakeGateway) CreatePaymentIntent(ctx context.Context, params payment.IntentParams) (*payment.IntentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents++
	return &payment.IntentResult{
		ID:           fmt.Sprintf("pi_%d", g.intents),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.intents),
	}, nil
}

func (g *fakeGateway) RefundCharge(ctx context.Context, chargeID string, amount int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, amount)
	return fmt.Sprintf("re_%d", len(g.refunds)), nil
}

func (g *fakeGateway) Transfer(ctx context.Context, params payment.TransferParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failTransfer {
		return "", fmt.Errorf("simulated transfer outage")
	}
	g.transfers++
	return fmt.Sprintf("tr_%d", g.transfers), nil
}

func (g *fakeGateway) ReverseTransfer(ctx context.Context, transferID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reversals = append(g.reversals, transferID)
	if g.failReversal {
		return fmt.Errorf("simulated reversal failure")
	}
	return nil
}

func (g *fakeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, nil
}

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc       *DefaultBookingService
	bookings  *fakeBookingRepo
	providers *fakeProviderRepo
	listings  *fakeListingRepo
	gateway   *fakeGateway
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings:  newFakeBookingRepo(),
		providers: newFakeProviderRepo(),
		listings:  newFakeListingRepo(),
		gateway:   &fakeGateway{},
	}
	env.svc = &DefaultBookingService{
		Bookings:        env.bookings,
		Providers:       env.providers,
		Listings:        env.listings,
		Gateway:         env.gateway,
		Logger:          zap.NewNop(),
		Now:             func() time.Time { return testNow },
		PayoutBatchSize: 50,
		PayoutBuffer:    30 * time.Minute,
	}
	return env
}
