package handlers

import (
	"net/http"
	"time"

	"guidely/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the reservation, payment, cancellation, and payout
// endpoints.
type BookingHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

// ReserveHandler locks a slot and creates the booking in pending_payment.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	var input struct {
		ListingType string `json:"listingType"`
		ListingID   string `json:"listingId"`
		ProviderID  string `json:"providerId"`
		SlotID      string `json:"slotId"`
		Start       string `json:"start"`
		End         string `json:"end"`
		Amount      int64  `json:"amount"`
		Currency    string `json:"currency"`
		PeopleCount int    `json:"peopleCount"`
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
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp", "details": err.Error()})
		return
	}

	b, err := h.svc.ReserveSlot(c.Request.Context(), callerFromContext(c), booking.ReserveInput{
		ListingType: input.ListingType,
		ListingID:   input.ListingID,
		ProviderID:  input.ProviderID,
		SlotID:      input.SlotID,
		Start:       start,
		End:         end,
		Amount:      input.Amount,
		Currency:    input.Currency,
		PeopleCount: input.PeopleCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookingId": b.ID})
}

// PaymentIntentHandler creates or returns the booking's charge authorization.
func (h *BookingHandler) PaymentIntentHandler(c *gin.Context) {
	result, err := h.svc.CreatePaymentIntent(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelHandler cancels a booking under the listing's cancellation policy.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	result, err := h.svc.CancelBooking(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PayoutHandler is the provider's manual payout trigger.
func (h *BookingHandler) PayoutHandler(c *gin.Context) {
	result, err := h.svc.RequestPayout(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBookingHandler returns one booking visible to the caller.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.svc.GetBooking(c.Request.Context(), callerFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler returns the caller's bookings as a buyer.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.svc.ListBookings(c.Request.Context(), callerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
