package models

// PaymentIntentResult is returned to the client to drive the external checkout UI.
type PaymentIntentResult struct {
	PaymentIntentID      string `json:"paymentIntentId"`
	ClientSecret         string `json:"clientSecret"`
	Amount               int64  `json:"amount"`
	Currency             string `json:"currency"`
	CommissionPercent    int    `json:"commissionPercent"`
	ApplicationFeeAmount int64  `json:"applicationFeeAmount"`
	SellerNetAmount      int64  `json:"sellerNetAmount"`
}

// CancelResult describes the outcome of a cancellation.
type CancelResult struct {
	Canceled      bool   `json:"canceled"`
	Refunded      bool   `json:"refunded"`
	RefundPercent int    `json:"refundPercent"`
	RefundAmount  int64  `json:"refundAmount"`
	RefundRef     string `json:"refundRef,omitempty"`
}

// PayoutResult describes a (possibly already settled) seller payout.
type PayoutResult struct {
	TransferID  string `json:"transferId"`
	AlreadyDone bool   `json:"alreadyDone"`
}
