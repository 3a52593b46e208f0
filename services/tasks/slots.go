package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRegenerateSlots = "slots:regenerate"
	TypeRollHorizon     = "slots:roll-horizon"
)

type RegenerateSlotsPayload struct {
	PractitionerID string `json:"practitionerId"`
}

func NewRegenerateSlotsTask(practitionerID string) (*asynq.Task, []asynq.Option, error) {
	if practitionerID == "" {
		return nil, nil, fmt.Errorf("practitioner id is required")
	}
	b, err := json.Marshal(RegenerateSlotsPayload{PractitionerID: practitionerID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRegenerateSlots, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(2 * time.Minute),
	}
	return task, opts, nil
}

// ParseRegenerateSlotsPayload decodes the payload of a TypeRegenerateSlots task.
func ParseRegenerateSlotsPayload(task *asynq.Task) (RegenerateSlotsPayload, error) {
	var p RegenerateSlotsPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, err
	}
	if p.PractitionerID == "" {
		return p, fmt.Errorf("payload has no practitionerId")
	}
	return p, nil
}

func NewRollHorizonTask() *asynq.Task {
	return asynq.NewTask(TypeRollHorizon, nil, asynq.MaxRetry(2), asynq.Timeout(30*time.Minute))
}

// Enqueuer pushes slot work onto the asynq queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueRegenerate(ctx context.Context, practitionerID string) error {
	task, opts, err := NewRegenerateSlotsTask(practitionerID)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeRegenerateSlots, err)
	}
	return nil
}
