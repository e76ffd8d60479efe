package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/database/repository"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReserveSlot locks the availability slot and creates the booking as one
// transaction. The slot read, the ownership and reserved checks, and both
// writes all happen under the same session so two concurrent buyers cannot
// both see the slot as free.
func (r *MongoBookingRepo) ReserveSlot(ctx context.Context, providerID string, booking *models.Booking) error {
	client := r.bookingColl.Database().Client()

	txnFn := func(sc mongo.SessionContext) error {
		var slot models.AvailabilitySlot
		err := r.slotColl.FindOne(sc, bson.M{"id": booking.SlotID}).Decode(&slot)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("failed to read slot %s: %w", booking.SlotID, err)
		}
		if slot.ProviderID != providerID {
			return ErrSlotOwnerMismatch
		}
		if slot.Reserved {
			return ErrSlotReserved
		}

		// The reserved:false filter guards against a concurrent transaction
		// that committed between our read and this write.
		res, err := r.slotColl.UpdateOne(sc,
			bson.M{"id": slot.ID, "reserved": false},
			bson.M{"$set": bson.M{
				"reserved":   true,
				"bookingRef": booking.ID,
				"reservedBy": booking.BuyerID,
			}},
		)
		if err != nil {
			return fmt.Errorf("failed to reserve slot %s: %w", slot.ID, err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotReserved
		}

		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := repository.RunTransaction(ctx, client, txnFn); err != nil {
		if errors.Is(err, ErrSlotNotFound) || errors.Is(err, ErrSlotOwnerMismatch) || errors.Is(err, ErrSlotReserved) {
			return err
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}
	return nil
}

// CancelAndReleaseSlot records the cancellation on the booking and releases
// its slot in one transaction, so a slot is never left reserved by a canceled
// booking.
func (r *MongoBookingRepo) CancelAndReleaseSlot(ctx context.Context, b *models.Booking, status models.BookingStatus, refundPercent int, refundRef string, at time.Time) error {
	client := r.bookingColl.Database().Client()

	txnFn := func(sc mongo.SessionContext) error {
		fields := bson.M{
			"status":        status,
			"refundPercent": refundPercent,
			"canceledAt":    at,
		}
		if refundRef != "" {
			fields["refundRef"] = refundRef
		}
		res, err := r.bookingColl.UpdateOne(sc, bson.M{"id": b.ID}, bson.M{"$set": fields})
		if err != nil {
			return fmt.Errorf("failed to cancel booking %s: %w", b.ID, err)
		}
		if res.MatchedCount == 0 {
			return ErrBookingNotFound
		}

		_, err = r.slotColl.UpdateOne(sc,
			bson.M{"id": b.SlotID, "bookingRef": b.ID},
			bson.M{"$set": bson.M{"reserved": false, "bookingRef": "", "reservedBy": ""}},
		)
		if err != nil {
			return fmt.Errorf("failed to release slot %s: %w", b.SlotID, err)
		}
		return nil
	}

	if err := repository.RunTransaction(ctx, client, txnFn); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return err
		}
		return fmt.Errorf("cancellation transaction failed: %w", err)
	}
	return nil
}
