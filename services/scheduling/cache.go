package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medibook/models"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCache keeps recently read templates out of Mongo.
// Writers Set the stored document; readers only Fill an empty key, so a read that raced
// a save cannot replace the newer entry.
type AvailabilityCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error)
	Set(ctx context.Context, doc models.AvailabilityDocument) error
	Fill(ctx context.Context, doc models.AvailabilityDocument) error
	Invalidate(ctx context.Context, practitionerID string) error
}

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) AvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

const availabilityKeyPrefix = "availability:"

func availabilityKey(practitionerID string) string {
	return fmt.Sprintf("%s%s", availabilityKeyPrefix, practitionerID)
}

// cachedAvailability carries the fields the API representation hides.
type cachedAvailability struct {
	PractitionerID string                `json:"practitionerId"`
	Schedule       models.WeeklySchedule `json:"schedule"`
	Timezone       string                `json:"timezone"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, practitionerID string) (*models.AvailabilityDocument, error) {
	val, err := c.client.Get(ctx, availabilityKey(practitionerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry cachedAvailability
	if err := json.Unmarshal(val, &entry); err != nil {
		// corrupt entry, treat as a miss
		return nil, nil
	}
	return &models.AvailabilityDocument{
		PractitionerID: entry.PractitionerID,
		Schedule:       entry.Schedule,
		Timezone:       entry.Timezone,
		UpdatedAt:      entry.UpdatedAt,
	}, nil
}

func encodeAvailability(doc models.AvailabilityDocument) ([]byte, error) {
	return json.Marshal(cachedAvailability{
		PractitionerID: doc.PractitionerID,
		Schedule:       doc.Schedule,
		Timezone:       doc.Timezone,
		UpdatedAt:      doc.UpdatedAt,
	})
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, doc models.AvailabilityDocument) error {
	data, err := encodeAvailability(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(doc.PractitionerID), data, c.ttl).Err()
}

// Fill stores doc only when the key is absent.
func (c *RedisAvailabilityCache) Fill(ctx context.Context, doc models.AvailabilityDocument) error {
	data, err := encodeAvailability(doc)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, availabilityKey(doc.PractitionerID), data, c.ttl).Err()
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, practitionerID string) error {
	return c.client.Del(ctx, availabilityKey(practitionerID)).Err()
}
