package slotRepo

import (
	"context"
	"errors"

	"guidely/models"
)

var ErrSlotNotFound = errors.New("slot not found")

// SlotRepository manages availability slots outside the booking transactions.
// Reservation and release are owned by the booking repository.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.AvailabilitySlot, error)
}
