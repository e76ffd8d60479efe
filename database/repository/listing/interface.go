package listingRepo

import (
	"context"
	"errors"

	"guidely/models"
)

var ErrListingNotFound = errors.New("listing not found")

// ListingRepository reads listings; the cancellation engine needs their
// policies and the review transaction reads and writes their rating fields.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
}
