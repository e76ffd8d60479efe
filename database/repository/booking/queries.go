package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MarkChargeSucceeded advances the booking to paid_hold and records the charge
// snapshot. The filter excludes confirmed and canceled bookings, and repeating
// the same $set is a no-op, so processor event replays cannot double-apply.
func (r *MongoBookingRepo) MarkChargeSucceeded(ctx context.Context, id, chargeRef, payoutDestination string, paidAt time.Time) error {
	filter := bson.M{
		"id": id,
		"status": bson.M{"$nin": bson.A{
			models.BookingConfirmed,
			models.BookingCanceled,
			models.BookingCanceledAdmin,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":            models.BookingPaidHold,
		"chargeRef":         chargeRef,
		"payoutDestination": payoutDestination,
		"paidAt":            paidAt,
	}}
	if _, err := r.bookingColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark booking %s paid: %w", id, err)
	}
	return nil
}

// MarkPaymentFailed transitions a not-yet-paid booking to payment_failed so
// the client may retry the payment intent.
func (r *MongoBookingRepo) MarkPaymentFailed(ctx context.Context, id string) error {
	filter := bson.M{
		"id": id,
		"status": bson.M{"$in": bson.A{
			models.BookingPendingPayment,
			models.BookingPaymentIntentCreated,
		}},
	}
	update := bson.M{"$set": bson.M{"status": models.BookingPaymentFailed}}
	if _, err := r.bookingColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark booking %s payment_failed: %w", id, err)
	}
	return nil
}

// MarkConfirmed promotes a paid_hold booking to confirmed.
func (r *MongoBookingRepo) MarkConfirmed(ctx context.Context, id string) error {
	filter := bson.M{"id": id, "status": models.BookingPaidHold}
	update := bson.M{"$set": bson.M{"status": models.BookingConfirmed}}
	if _, err := r.bookingColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to confirm booking %s: %w", id, err)
	}
	return nil
}

// PayoutCandidates returns paid bookings whose payout has not settled yet.
func (r *MongoBookingRepo) PayoutCandidates(ctx context.Context, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status":       bson.M{"$in": bson.A{models.BookingPaidHold, models.BookingConfirmed}},
		"payoutStatus": bson.M{"$in": bson.A{models.PayoutNotScheduled, models.PayoutPending}},
	}
	opts := options.Find().
		SetSort(bson.M{"end": 1}).
		SetLimit(limit)
	cur, err := r.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout candidates: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode payout candidates: %w", err)
	}
	return bookings, nil
}

// ClaimPayout compare-and-sets payoutStatus not_scheduled -> pending. A zero
// match means another run already holds or settled this payout.
func (r *MongoBookingRepo) ClaimPayout(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"id": id, "payoutStatus": models.PayoutNotScheduled}
	update := bson.M{"$set": bson.M{"payoutStatus": models.PayoutPending}}
	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim payout for booking %s: %w", id, err)
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoBookingRepo) MarkPayoutPaid(ctx context.Context, id, transferRef string, at time.Time) error {
	filter := bson.M{"id": id, "payoutStatus": models.PayoutPending}
	update := bson.M{"$set": bson.M{
		"payoutStatus": models.PayoutPaid,
		"transferRef":  transferRef,
		"paidOutAt":    at,
	}}
	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark payout paid for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *MongoBookingRepo) RevertPayout(ctx context.Context, id string) error {
	filter := bson.M{"id": id, "payoutStatus": models.PayoutPending}
	update := bson.M{"$set": bson.M{"payoutStatus": models.PayoutNotScheduled}}
	if _, err := r.bookingColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to revert payout for booking %s: %w", id, err)
	}
	return nil
}
