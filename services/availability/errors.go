package availability

import (
	"errors"
	"fmt"
)

var (
	ErrNotEditing          = errors.New("schedule is not in editing mode")
	ErrAlreadyEditing      = errors.New("schedule is already in editing mode")
	ErrSaveInProgress      = errors.New("a save is already in progress")
	ErrUnknownDay          = errors.New("unknown day of week")
	ErrDayNotWorking       = errors.New("day is not a working day")
	ErrSlotIndexOutOfRange = errors.New("time slot index out of range")
	ErrUnknownSlotField    = errors.New("unknown time slot field")
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidClock        = errors.New("invalid time of day")
)

// InvalidTimeRangeError describes the first slot that failed validation.
// Index is -1 when the problem concerns the day entry rather than a single slot.
type InvalidTimeRangeError struct {
	Day    string
	Index  int
	Reason string
}

func (e *InvalidTimeRangeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("InvalidTimeRange: %s: %s", e.Day, e.Reason)
	}
	return fmt.Sprintf("InvalidTimeRange: %s slot %d: %s", e.Day, e.Index, e.Reason)
}

func (e *InvalidTimeRangeError) Unwrap() error { return ErrInvalidTimeRange }

// LoadError reports that the schedule could not be fetched and the default template is in use.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load availability, using default schedule: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed push. The edits are still held by the model and the save can be retried.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("could not save availability: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Retryable is always true for a SaveError.
func (e *SaveError) Retryable() bool { return true }
