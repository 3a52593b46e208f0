// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func rangeFilter(practitionerID, from, to string) bson.M {
	return bson.M{
		"practitionerId": practitionerID,
		"date":           bson.M{"$gte": from, "$lte": to},
	}
}

func (r *mongoTimeSlotRepo) ListRange(ctx context.Context, practitionerID, from, to string) ([]models.BookableTimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, rangeFilter(practitionerID, from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.BookableTimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) ReplaceRange(ctx context.Context, practitionerID, from, to string, slots []models.BookableTimeSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	ids := make([]string, 0, len(slots))
	writes := make([]mongo.WriteModel, 0, len(slots))
	now := time.Now().UTC()
	for _, slot := range slots {
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		ids = append(ids, slot.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": slot.ID}).
			SetReplacement(slot).
			SetUpsert(true))
	}

	if len(writes) > 0 {
		if _, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("failed to write timeslots: %w", err)
		}
	}

	stale := rangeFilter(practitionerID, from, to)
	stale["id"] = bson.M{"$nin": ids}
	stale["$or"] = bson.A{
		bson.M{"appointmentId": bson.M{"$exists": false}},
		bson.M{"appointmentId": ""},
	}
	if _, err := r.coll.DeleteMany(ctx, stale); err != nil {
		return fmt.Errorf("failed to delete stale timeslots: %w", err)
	}
	return nil
}
