package routes

import (
	"net/http"
	"time"

	"guidely/handlers"
	"guidely/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the route registration needs.
type HandlerBundle struct {
	Booking *handlers.BookingHandler
	Review  *handlers.ReviewHandler
	Slots   *handlers.SlotHandler
	Admin   *handlers.AdminHandler
	Webhook *handlers.WebhookHandler
}

// RegisterBookingRoutes sets up the buyer-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/reserve", hb.Booking.ReserveHandler)
		api.GET("", hb.Booking.ListBookingsHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.POST("/:id/payment-intent", hb.Booking.PaymentIntentHandler)
		api.POST("/:id/cancel", hb.Booking.CancelHandler)
		api.POST("/:id/payout", hb.Booking.PayoutHandler)
		api.POST("/:id/review", hb.Review.AddReviewHandler)
	}
}

// RegisterSlotRoutes sets up the provider-facing availability endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Slots.CreateSlotHandler)
		api.GET("", hb.Slots.ListSlotsHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("admin"))
		adminGroup.POST("/bookings/:id/cancel", hb.Admin.OverrideCancelHandler)
	}
}

// RegisterWebhookRoutes sets up the unauthenticated, signature-verified
// payment-processor endpoint.
func RegisterWebhookRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/webhooks/stripe", hb.Webhook.StripeWebhookHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Guidely"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)
}
