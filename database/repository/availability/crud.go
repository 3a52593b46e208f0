// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAvailabilityRepo) GetByPractitionerID(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.AvailabilityDocument
	err := r.coll.FindOne(ctx, bson.M{"practitionerId": practitionerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability for practitioner %s: %w", practitionerID, err)
	}
	return &doc, nil
}

func (r *mongoAvailabilityRepo) Upsert(ctx context.Context, doc models.AvailabilityDocument) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	filter := bson.M{"practitionerId": doc.PractitionerID}
	_, err := r.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability for practitioner %s: %w", doc.PractitionerID, err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) ListPractitionerIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "practitionerId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
