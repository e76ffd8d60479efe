package handlers

import (
	"net/http"

	"guidely/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewAdminHandler(svc booking.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// OverrideCancelHandler cancels a booking with an explicit refund percentage,
// bypassing the listing's deadline policy.
func (h *AdminHandler) OverrideCancelHandler(c *gin.Context) {
	var input struct {
		RefundPercent int `json:"refundPercent"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.svc.AdminOverrideCancel(c.Request.Context(), callerFromContext(c), c.Param("id"), input.RefundPercent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
