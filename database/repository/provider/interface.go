package providerRepo

import (
	"context"
	"errors"

	"guidely/models"
)

var ErrProviderNotFound = errors.New("provider not found")

// ProviderRepository persists seller accounts. Rating aggregates are written
// by the review repository's transaction, not here.
type ProviderRepository interface {
	Create(ctx context.Context, provider *models.Provider) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error

	// UpdateTierByCustomer sets the commission tier of the provider whose
	// external billing customer matches customerID.
	UpdateTierByCustomer(ctx context.Context, customerID string, tier models.CommissionTier) error
}
