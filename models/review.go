package models

import "time"

// Review is one buyer review per booking. The review's document ID reuses the
// booking ID, so uniqueness holds by construction rather than by query.
type Review struct {
	ID         string    `bson:"_id" json:"id"` // equals the booking ID
	BuyerID    string    `bson:"buyerId" json:"buyerId"`
	ListingID  string    `bson:"listingId" json:"listingId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Rating     int       `bson:"rating" json:"rating"` // 1..5
	Comment    string    `bson:"comment" json:"comment"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
