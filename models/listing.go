package models

import "time"

// CancellationPolicy is provider-configured per listing.
type CancellationPolicy struct {
	FreeCancelHours            int `bson:"freeCancelHours" json:"freeCancelHours"`
	RefundPercentAfterDeadline int `bson:"refundPercentAfterDeadline" json:"refundPercentAfterDeadline"`
	NoShowRefundPercent        int `bson:"noShowRefundPercent" json:"noShowRefundPercent"`
}

// Listing is a bookable tour or experience.
type Listing struct {
	ID         string             `bson:"id" json:"id"`
	Type       string             `bson:"type" json:"type"` // "tour" or "experience"
	ProviderID string             `bson:"providerId" json:"providerId"`
	Title      string             `bson:"title" json:"title"`
	Policy     CancellationPolicy `bson:"policy" json:"policy"`
	Rating     RatingStats        `bson:"rating" json:"rating"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
