// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentRepository gives read access to booked appointments.
type AppointmentRepository interface {
	// ListActiveInRange returns non-cancelled appointments with from <= date <= to.
	ListActiveInRange(ctx context.Context, practitionerID, from, to string) ([]models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}
