package models

import "time"

// BookingStatus enumerates the booking state machine.
type BookingStatus string

const (
	BookingPendingPayment       BookingStatus = "pending_payment"
	BookingPaymentIntentCreated BookingStatus = "payment_intent_created"
	BookingPaidHold             BookingStatus = "paid_hold"
	BookingConfirmed            BookingStatus = "confirmed"
	BookingPaymentFailed        BookingStatus = "payment_failed"
	BookingCanceled             BookingStatus = "canceled"
	BookingCanceledAdmin        BookingStatus = "canceled_admin"
)

// PayoutStatus tracks seller payout progress independently of booking status.
type PayoutStatus string

const (
	PayoutNotScheduled PayoutStatus = "not_scheduled"
	PayoutPending      PayoutStatus = "pending"
	PayoutPaid         PayoutStatus = "paid"
)

// IsCanceled reports whether the status is one of the absorbing canceled states.
func (s BookingStatus) IsCanceled() bool {
	return s == BookingCanceled || s == BookingCanceledAdmin
}

// IsPaid reports whether the processor has confirmed the charge.
func (s BookingStatus) IsPaid() bool {
	return s == BookingPaidHold || s == BookingConfirmed
}

// Booking is the central state-machine entity. Bookings are never deleted;
// canceled ones are retained for audit and tax reporting.
type Booking struct {
	ID          string `bson:"id" json:"id"`
	BuyerID     string `bson:"buyerId" json:"buyerId"`
	ListingType string `bson:"listingType" json:"listingType"` // "tour" or "experience"
	ListingID   string `bson:"listingId" json:"listingId"`
	ProviderID  string `bson:"providerId" json:"providerId"`
	SlotID      string `bson:"slotId" json:"slotId"`

	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	PeopleCount int       `bson:"peopleCount" json:"peopleCount"`

	// All monetary amounts are integer minor currency units.
	Amount               int64  `bson:"amount" json:"amount"`
	Currency             string `bson:"currency" json:"currency"`
	CommissionPercent    int    `bson:"commissionPercent" json:"commissionPercent"`
	ApplicationFeeAmount int64  `bson:"applicationFeeAmount" json:"applicationFeeAmount"`
	SellerNetAmount      int64  `bson:"sellerNetAmount" json:"sellerNetAmount"`

	// PaymentIntentID is immutable once set; it anchors payment idempotency.
	PaymentIntentID   string `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	ClientSecret      string `bson:"clientSecret,omitempty" json:"clientSecret,omitempty"`
	ChargeRef         string `bson:"chargeRef,omitempty" json:"chargeRef,omitempty"`
	TransferRef       string `bson:"transferRef,omitempty" json:"transferRef,omitempty"`
	RefundRef         string `bson:"refundRef,omitempty" json:"refundRef,omitempty"`
	PayoutDestination string `bson:"payoutDestination,omitempty" json:"payoutDestination,omitempty"`

	Status        BookingStatus `bson:"status" json:"status"`
	PayoutStatus  PayoutStatus  `bson:"payoutStatus" json:"payoutStatus"`
	RefundPercent int           `bson:"refundPercent,omitempty" json:"refundPercent,omitempty"`

	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	PaidAt     time.Time `bson:"paidAt,omitzero" json:"paidAt,omitzero"`
	CanceledAt time.Time `bson:"canceledAt,omitzero" json:"canceledAt,omitzero"`
	PaidOutAt  time.Time `bson:"paidOutAt,omitzero" json:"paidOutAt,omitzero"`
}
