// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository stores one weekly template per practitioner.
type AvailabilityRepository interface {
	// GetByPractitionerID returns nil, nil when the practitioner has no stored template.
	GetByPractitionerID(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error)
	// Upsert replaces the practitioner's template wholesale.
	Upsert(ctx context.Context, doc models.AvailabilityDocument) error
	// ListPractitionerIDs returns every practitioner with a stored template.
	ListPractitionerIDs(ctx context.Context) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("availability"),
	}
}
