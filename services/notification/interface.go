package notification

import (
	"context"

	"guidely/models"
)

// NotificationService sends best-effort pushes on booking life-cycle events.
// Failures are logged by implementations and never block the caller.
type NotificationService interface {
	NotifyBookingPaid(ctx context.Context, booking *models.Booking)
	NotifyBookingCanceled(ctx context.Context, booking *models.Booking, refundPercent int)
	NotifyPayoutReleased(ctx context.Context, booking *models.Booking)
}
