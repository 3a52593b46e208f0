package availability

import (
	"fmt"
	"sort"
	"time"

	"medibook/models"
)

// ValidationOptions tunes save-time validation.
type ValidationOptions struct {
	// AllowOverlap accepts slots of the same day whose ranges intersect.
	AllowOverlap bool
}

// Validate checks the whole schedule and returns the first *InvalidTimeRangeError found.
// Days are checked in display order so the reported error is stable.
func Validate(s models.WeeklySchedule, opts ValidationOptions) error {
	for day := range s {
		if !models.IsWeekday(day) {
			return fmt.Errorf("%w: %q", ErrUnknownDay, day)
		}
	}
	for _, day := range models.Weekdays {
		entry, ok := s[day]
		if !ok {
			continue
		}
		if err := validateDay(day, entry, opts); err != nil {
			return err
		}
	}
	return nil
}

func validateDay(day string, entry models.DaySchedule, opts ValidationOptions) error {
	if !entry.IsWorking {
		if len(entry.Slots) > 0 {
			return &InvalidTimeRangeError{Day: day, Index: -1, Reason: "non-working day must not have time slots"}
		}
		return nil
	}
	if len(entry.Slots) == 0 {
		return &InvalidTimeRangeError{Day: day, Index: -1, Reason: "working day needs at least one time slot"}
	}

	ranges := make([]indexedRange, 0, len(entry.Slots))
	for i, slot := range entry.Slots {
		start, end, err := ValidateSlot(slot)
		if err != nil {
			return &InvalidTimeRangeError{Day: day, Index: i, Reason: err.Error()}
		}
		ranges = append(ranges, indexedRange{index: i, start: start, end: end})
	}
	if opts.AllowOverlap {
		return nil
	}
	if a, b, ok := firstOverlap(ranges); ok {
		return &InvalidTimeRangeError{Day: day, Index: b, Reason: fmt.Sprintf("overlaps slot %d", a)}
	}
	return nil
}

// ValidateSlot checks one slot and returns its bounds in minutes.
func ValidateSlot(slot models.TimeSlot) (int, int, error) {
	start, err := ParseClock(slot.Start)
	if err != nil {
		return 0, 0, fmt.Errorf("start: %v", err)
	}
	end, err := ParseClock(slot.End)
	if err != nil {
		return 0, 0, fmt.Errorf("end: %v", err)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("start %s must be before end %s", slot.Start, slot.End)
	}
	if (slot.BreakStart == "") != (slot.BreakEnd == "") {
		return 0, 0, fmt.Errorf("break needs both breakStart and breakEnd")
	}
	if !slot.HasBreak() {
		return start, end, nil
	}
	bs, err := ParseClock(slot.BreakStart)
	if err != nil {
		return 0, 0, fmt.Errorf("breakStart: %v", err)
	}
	be, err := ParseClock(slot.BreakEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("breakEnd: %v", err)
	}
	if bs >= be {
		return 0, 0, fmt.Errorf("breakStart %s must be before breakEnd %s", slot.BreakStart, slot.BreakEnd)
	}
	if bs < start || be > end {
		return 0, 0, fmt.Errorf("break %s-%s must lie within %s-%s", slot.BreakStart, slot.BreakEnd, slot.Start, slot.End)
	}
	return start, end, nil
}

type indexedRange struct {
	index      int
	start, end int
}

// Overlaps reports whether two slots intersect. Touching ranges do not overlap.
// Slots that fail to parse never overlap anything.
func Overlaps(a, b models.TimeSlot) bool {
	as, ae, err := ValidateSlot(a)
	if err != nil {
		return false
	}
	bs, be, err := ValidateSlot(b)
	if err != nil {
		return false
	}
	return as < be && bs < ae
}

func firstOverlap(ranges []indexedRange) (int, int, bool) {
	sorted := make([]indexedRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.start < prev.end {
			a, b := prev.index, cur.index
			if a > b {
				a, b = b, a
			}
			return a, b, true
		}
	}
	return 0, 0, false
}

// ResolveTimezone returns the IANA name to store with a schedule. Empty means UTC.
func ResolveTimezone(name string) (string, *time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return name, loc, nil
}
