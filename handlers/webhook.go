package handlers

import (
	"io"
	"net/http"

	"guidely/services/booking"
	"guidely/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stripe webhook bodies are small; cap reads well above their documented size.
const maxWebhookBody = 1 << 16

// WebhookHandler is the unauthenticated payment-processor endpoint. The
// signature check is the only thing standing between the internet and the
// booking state machine, so it fails closed.
type WebhookHandler struct {
	svc     booking.BookingService
	gateway payment.Gateway
	logger  *zap.Logger
}

func NewWebhookHandler(svc booking.BookingService, gateway payment.Gateway, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, gateway: gateway, logger: logger}
}

func (h *WebhookHandler) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	event, err := h.gateway.ConstructEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if err := h.svc.HandlePaymentEvent(c.Request.Context(), event); err != nil {
		if booking.KindOf(err) == booking.KindInvalidArgument {
			h.logger.Warn("rejecting malformed webhook event",
				zap.String("type", string(event.Type)), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Non-2xx makes the processor redeliver; handlers are idempotent.
		h.logger.Error("webhook processing failed",
			zap.String("type", string(event.Type)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
