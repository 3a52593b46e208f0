package availability

import (
	"sync"

	"medibook/models"

	"go.uber.org/zap"
)

// Mode is the editing state of a Model.
type Mode int

const (
	// Viewing shows the last loaded or saved schedule read-only.
	Viewing Mode = iota
	// Editing holds a mutable scratch copy of the last saved schedule.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// Model owns one practitioner's weekly availability template for the lifetime of a page or session.
// Edits apply to a scratch copy taken by BeginEdit and only become the saved state through Save.
type Model struct {
	Client     Client
	Validation ValidationOptions
	Logger     *zap.Logger

	mu       sync.Mutex
	saved    models.WeeklySchedule
	scratch  models.WeeklySchedule
	timezone string
	mode     Mode
	saving   bool
}

// NewModel returns a model in Viewing mode holding the default schedule.
func NewModel(client Client, opts ValidationOptions, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		Client:     client,
		Validation: opts,
		Logger:     logger,
		saved:      DefaultSchedule(),
		timezone:   DefaultTimezone,
		mode:       Viewing,
	}
}

// Mode returns the current mode.
func (m *Model) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Saving reports whether a save is in flight.
func (m *Model) Saving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saving
}

// Timezone returns the timezone of the last loaded or saved schedule.
func (m *Model) Timezone() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timezone
}

// Schedule returns a copy of what the current mode displays.
func (m *Model) Schedule() models.WeeklySchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current().Clone()
}

// SavedSchedule returns a copy of the last saved schedule regardless of mode.
func (m *Model) SavedSchedule() models.WeeklySchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved.Clone()
}

func (m *Model) current() models.WeeklySchedule {
	if m.mode == Editing {
		return m.scratch
	}
	return m.saved
}

// BeginEdit switches to Editing with a scratch copy of the saved schedule.
func (m *Model) BeginEdit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == Editing {
		return ErrAlreadyEditing
	}
	m.scratch = m.saved.Clone()
	m.mode = Editing
	return nil
}

// Cancel discards the scratch copy and returns to Viewing.
func (m *Model) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saving {
		return ErrSaveInProgress
	}
	if m.mode != Editing {
		return ErrNotEditing
	}
	m.scratch = nil
	m.mode = Viewing
	return nil
}

// edit runs fn against the scratch copy while holding the lock.
func (m *Model) edit(fn func(models.WeeklySchedule) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saving {
		return ErrSaveInProgress
	}
	if m.mode != Editing {
		return ErrNotEditing
	}
	return fn(m.scratch)
}

// ToggleWorkingDay flips a day between working and non-working.
// Becoming a working day seeds one DefaultTimeSlot; becoming non-working clears the slots.
func (m *Model) ToggleWorkingDay(day string) error {
	return m.edit(func(s models.WeeklySchedule) error {
		return toggleWorkingDay(s, day)
	})
}

// AddTimeSlot appends slot to a working day. Overlaps are only checked on save.
// A non-working day is rejected with ErrDayNotWorking; toggle it on first.
func (m *Model) AddTimeSlot(day string, slot models.TimeSlot) error {
	return m.edit(func(s models.WeeklySchedule) error {
		return addTimeSlot(s, day, slot)
	})
}

// RemoveTimeSlot deletes the slot at index.
func (m *Model) RemoveTimeSlot(day string, index int) error {
	return m.edit(func(s models.WeeklySchedule) error {
		return removeTimeSlot(s, day, index)
	})
}

// UpdateTimeSlot sets one field of the slot at index. Values are not validated until Save.
func (m *Model) UpdateTimeSlot(day string, index int, field, value string) error {
	return m.edit(func(s models.WeeklySchedule) error {
		return updateTimeSlot(s, day, index, field, value)
	})
}

// CopySchedule replaces toDay with a deep copy of fromDay.
func (m *Model) CopySchedule(fromDay, toDay string) error {
	return m.edit(func(s models.WeeklySchedule) error {
		return copySchedule(s, fromDay, toDay)
	})
}

// ComputeWeeklyHours returns the total working hours of the displayed schedule.
func (m *Model) ComputeWeeklyHours() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ComputeWeeklyHours(m.current())
}

// CountWorkingDays returns the number of working days in the displayed schedule.
func (m *Model) CountWorkingDays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CountWorkingDays(m.current())
}
