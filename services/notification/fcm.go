package notification

import (
	"context"
	"fmt"

	"guidely/models"
	"guidely/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService delivers pushes over Firebase Cloud Messaging using
// per-account topics (user-<id>, provider-<id>), so no device token bookkeeping
// happens in this service.
type FCMNotificationService struct {
	logger *zap.Logger
}

func NewFCMNotificationService(logger *zap.Logger) *FCMNotificationService {
	return &FCMNotificationService{logger: logger}
}

func (s *FCMNotificationService) send(ctx context.Context, topic, title, body string, data map[string]string) {
	client := utils.FCMClient
	if client == nil {
		return
	}

	msg := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := client.Send(ctx, msg); err != nil {
		s.logger.Warn("push notification failed", zap.String("topic", topic), zap.Error(err))
	}
}

func (s *FCMNotificationService) NotifyBookingPaid(ctx context.Context, booking *models.Booking) {
	data := map[string]string{"bookingId": booking.ID, "event": "booking_paid"}
	s.send(ctx, "user-"+booking.BuyerID, "Booking confirmed",
		"Your payment was received and the booking is confirmed.", data)
	s.send(ctx, "provider-"+booking.ProviderID, "New paid booking",
		"A booking has been paid and is awaiting the service date.", data)
}

func (s *FCMNotificationService) NotifyBookingCanceled(ctx context.Context, booking *models.Booking, refundPercent int) {
	data := map[string]string{"bookingId": booking.ID, "event": "booking_canceled"}
	s.send(ctx, "user-"+booking.BuyerID, "Booking canceled",
		fmt.Sprintf("Your booking was canceled (%d%% refund).", refundPercent), data)
	s.send(ctx, "provider-"+booking.ProviderID, "Booking canceled",
		"A booking for one of your listings was canceled.", data)
}

func (s *FCMNotificationService) NotifyPayoutReleased(ctx context.Context, booking *models.Booking) {
	data := map[string]string{"bookingId": booking.ID, "event": "payout_released"}
	s.send(ctx, "provider-"+booking.ProviderID, "Payout released",
		"Your earnings for a completed booking are on the way.", data)
}
