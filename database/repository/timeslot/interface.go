// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// TimeSlotRepository stores the dated bookable slots generated from weekly templates.
type TimeSlotRepository interface {
	// ListRange returns the practitioner's slots with from <= date <= to, ordered by date and start.
	ListRange(ctx context.Context, practitionerID, from, to string) ([]models.BookableTimeSlot, error)
	// ReplaceRange upserts slots by ID and deletes the practitioner's other slots in [from, to]
	// that no appointment holds.
	ReplaceRange(ctx context.Context, practitionerID, from, to string, slots []models.BookableTimeSlot) error
	EnsureIndexes(ctx context.Context) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo() TimeSlotRepository {
	return &mongoTimeSlotRepo{
		coll: database.DB().Collection("timeslots"),
	}
}
