// File: guidely/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guidely/config"
	"guidely/cron"
	"guidely/database"
	bookingRepoPkg "guidely/database/repository/booking"
	listingRepoPkg "guidely/database/repository/listing"
	providerRepoPkg "guidely/database/repository/provider"
	reviewRepoPkg "guidely/database/repository/review"
	slotRepoPkg "guidely/database/repository/slot"
	"guidely/handlers"
	"guidely/middleware"
	"guidely/routes"
	"guidely/services/booking"
	"guidely/services/notification"
	"guidely/services/payment"
	"guidely/services/review"
	"guidely/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	providerRepo := providerRepoPkg.NewMongoProviderRepo()
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeWebhookSecret, logger)
	notifier := notification.NewFCMNotificationService(logger)

	bookingService := &booking.DefaultBookingService{
		Bookings:        bookingRepo,
		Providers:       providerRepo,
		Listings:        listingRepo,
		Gateway:         gateway,
		Notifier:        notifier,
		Logger:          logger,
		PayoutBatchSize: int64(config.AppConfig.PayoutBatchSize),
		PayoutBuffer:    time.Duration(config.AppConfig.PayoutBufferMinutes) * time.Minute,
	}

	reviewService := &review.DefaultReviewService{
		Bookings: bookingRepo,
		Reviews:  reviewRepo,
		Logger:   logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService, logger),
		Review:  handlers.NewReviewHandler(reviewService, logger),
		Slots:   handlers.NewSlotHandler(slotRepo, logger),
		Admin:   handlers.NewAdminHandler(bookingService, logger),
		Webhook: handlers.NewWebhookHandler(bookingService, gateway, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the background payout worker and its 15-minute schedule.
	cron.InitPayoutWorker(bookingService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
