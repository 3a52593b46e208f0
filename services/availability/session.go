package availability

import (
	"context"
	"errors"
	"fmt"

	"medibook/models"

	"go.uber.org/zap"
)

// Client is the backend the model loads from and saves to.
type Client interface {
	// GetAvailability returns nil, nil when the practitioner has no stored schedule.
	GetAvailability(ctx context.Context) (*models.AvailabilityDocument, error)
	PutAvailability(ctx context.Context, doc models.AvailabilityDocument) error
	ListTimeSlots(ctx context.Context, start, end string) ([]models.BookableTimeSlot, error)
}

var errNoClient = errors.New("availability client is not configured")

// Load replaces the in-memory state with the backend's schedule and returns to Viewing.
// An absent schedule loads the default silently. A failed fetch also loads the default and
// returns a *LoadError, which callers should show as a notice; the model stays usable.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.saving {
		m.mu.Unlock()
		return ErrSaveInProgress
	}
	m.mu.Unlock()

	var (
		doc *models.AvailabilityDocument
		err error
	)
	if m.Client == nil {
		err = errNoClient
	} else {
		doc, err = m.Client.GetAvailability(ctx)
	}

	if err != nil {
		m.Logger.Warn("Failed to load availability, falling back to default schedule", zap.Error(err))
		if lerr := m.LoadDocument(nil); lerr != nil {
			return lerr
		}
		return &LoadError{Err: err}
	}
	return m.LoadDocument(doc)
}

// LoadDocument replaces the in-memory state with doc and returns to Viewing.
// A nil or empty document loads the default schedule.
func (m *Model) LoadDocument(doc *models.AvailabilityDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saving {
		return ErrSaveInProgress
	}
	m.scratch = nil
	m.mode = Viewing

	m.timezone = DefaultTimezone
	if doc != nil && doc.Timezone != "" {
		m.timezone = doc.Timezone
	}
	if doc == nil || len(doc.Schedule) == 0 {
		m.saved = DefaultSchedule()
		return nil
	}
	m.saved = Normalize(doc.Schedule)
	return nil
}

// Save validates the scratch copy, attaches timezone and pushes the whole document.
// Validation failures and push failures leave the model in Editing with all edits intact.
// On success the scratch copy becomes the saved schedule and the model returns to Viewing.
func (m *Model) Save(ctx context.Context, timezone string) (models.WeeklySchedule, error) {
	m.mu.Lock()
	if m.saving {
		m.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	if m.mode != Editing {
		m.mu.Unlock()
		return nil, ErrNotEditing
	}
	if err := Validate(m.scratch, m.Validation); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	tz, _, err := ResolveTimezone(timezone)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if m.Client == nil {
		m.mu.Unlock()
		return nil, &SaveError{Err: errNoClient}
	}
	snapshot := Normalize(m.scratch)
	m.saving = true
	m.mu.Unlock()

	err = m.Client.PutAvailability(ctx, models.AvailabilityDocument{
		Schedule: snapshot.Clone(),
		Timezone: tz,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = false
	if err != nil {
		m.Logger.Error("Failed to save availability", zap.Error(err))
		if errors.Is(err, ErrInvalidTimeRange) {
			return nil, err
		}
		return nil, &SaveError{Err: err}
	}
	m.saved = snapshot
	m.scratch = nil
	m.timezone = tz
	m.mode = Viewing
	return snapshot.Clone(), nil
}

// Utilization fetches the bookable slots between start and end (YYYY-MM-DD, inclusive) and counts them.
func (m *Model) Utilization(ctx context.Context, start, end string) (models.SlotUtilization, error) {
	if m.Client == nil {
		return models.SlotUtilization{}, errNoClient
	}
	slots, err := m.Client.ListTimeSlots(ctx, start, end)
	if err != nil {
		return models.SlotUtilization{}, fmt.Errorf("failed to fetch time slots: %w", err)
	}
	return Utilization(slots), nil
}
