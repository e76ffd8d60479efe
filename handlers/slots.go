package handlers

import (
	"net/http"
	"time"

	slotRepo "guidely/database/repository/slot"
	"guidely/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotHandler lets providers publish and list their availability slots.
// Reservation and release of slots belong to the booking service.
type SlotHandler struct {
	repo   slotRepo.SlotRepository
	logger *zap.Logger
}

func NewSlotHandler(repo slotRepo.SlotRepository, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{repo: repo, logger: logger}
}

func (h *SlotHandler) CreateSlotHandler(c *gin.Context) {
	var input struct {
		ListingType string `json:"listingType"`
		ListingID   string `json:"listingId"`
		Start       string `json:"start"`
		End         string `json:"end"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, input.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp", "details": err.Error()})
		return
	}
	end, err := time.Parse(time.RFC3339, input.End)
	if err != nil || !end.After(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
		return
	}

	caller := callerFromContext(c)
	slot := &models.AvailabilitySlot{
		ID:          uuid.New().String(),
		ProviderID:  caller.ID,
		ListingType: input.ListingType,
		ListingID:   input.ListingID,
		Start:       start.UTC(),
		End:         end.UTC(),
	}
	if err := h.repo.Create(c.Request.Context(), slot); err != nil {
		h.logger.Error("failed to create slot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slotId": slot.ID})
}

func (h *SlotHandler) ListSlotsHandler(c *gin.Context) {
	caller := callerFromContext(c)
	slots, err := h.repo.ListByProvider(c.Request.Context(), caller.ID, 200)
	if err != nil {
		h.logger.Error("failed to list slots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list slots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
