package models

import "time"

// ProviderRole distinguishes the two seller variants on the platform.
type ProviderRole string

const (
	RoleTourGuide      ProviderRole = "tour_guide"
	RoleExperienceHost ProviderRole = "experience_host"
)

// CommissionTier is a seller's subscription level; it fixes the platform
// commission percentage applied to each booking.
type CommissionTier string

const (
	TierFree  CommissionTier = "free"
	TierPro   CommissionTier = "pro"
	TierElite CommissionTier = "elite"
)

// CommissionPercent returns the platform cut for the tier. Unknown values
// fall back to the free tier.
func (t CommissionTier) CommissionPercent() int {
	switch t {
	case TierPro:
		return 10
	case TierElite:
		return 5
	default:
		return 15
	}
}

// Provider is a seller account. Rating fields are mutated only by the rating
// aggregator; the tier only by subscription lifecycle events.
type Provider struct {
	ID    string         `bson:"id" json:"id"`
	Role  ProviderRole   `bson:"role" json:"role"`
	Name  string         `bson:"name" json:"name,omitempty"`
	Email string         `bson:"email" json:"email,omitempty"`
	Tier  CommissionTier `bson:"tier" json:"tier"`

	// External payment processor references. StripeAccountID is the payout
	// destination; empty means the seller has not completed onboarding.
	StripeAccountID  string `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	StripeCustomerID string `bson:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`

	Rating RatingStats `bson:"rating" json:"rating"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
