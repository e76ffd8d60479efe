package models

import "time"

// AvailabilitySlot represents one bookable time window for a listing.
// At most one non-canceled booking may reference a slot at any time.
type AvailabilitySlot struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"providerId" json:"providerId"`
	ListingType string    `bson:"listingType" json:"listingType"`
	ListingID   string    `bson:"listingId" json:"listingId"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	Reserved    bool      `bson:"reserved" json:"reserved"`
	BookingRef  string    `bson:"bookingRef,omitempty" json:"bookingRef,omitempty"`
	ReservedBy  string    `bson:"reservedBy,omitempty" json:"reservedBy,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
