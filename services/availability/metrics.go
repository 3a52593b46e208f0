package availability

import "medibook/models"

// Segment is a bookable [Start, End) range in minutes from midnight.
type Segment struct {
	Start int
	End   int
}

// Segments returns the working ranges of a slot with its break cut out.
// The break is clamped to the slot window; an inverted or empty break removes nothing.
// A slot whose times do not parse, or whose end is not after its start, yields no segments.
func Segments(slot models.TimeSlot) []Segment {
	start, err := ParseClock(slot.Start)
	if err != nil {
		return nil
	}
	end, err := ParseClock(slot.End)
	if err != nil || end <= start {
		return nil
	}
	bs, be, ok := clampedBreak(slot, start, end)
	if !ok {
		return []Segment{{Start: start, End: end}}
	}
	var out []Segment
	if bs > start {
		out = append(out, Segment{Start: start, End: bs})
	}
	if be < end {
		out = append(out, Segment{Start: be, End: end})
	}
	return out
}

func clampedBreak(slot models.TimeSlot, start, end int) (int, int, bool) {
	if !slot.HasBreak() {
		return 0, 0, false
	}
	bs, err := ParseClock(slot.BreakStart)
	if err != nil {
		return 0, 0, false
	}
	be, err := ParseClock(slot.BreakEnd)
	if err != nil {
		return 0, 0, false
	}
	bs = max(bs, start)
	be = min(be, end)
	if be <= bs {
		return 0, 0, false
	}
	return bs, be, true
}

// SlotMinutes is the working time of one slot, break excluded.
func SlotMinutes(slot models.TimeSlot) int {
	total := 0
	for _, seg := range Segments(slot) {
		total += seg.End - seg.Start
	}
	return total
}

// ComputeWeeklyHours sums the working hours of every slot on every working day.
func ComputeWeeklyHours(s models.WeeklySchedule) float64 {
	minutes := 0
	for _, entry := range s {
		if !entry.IsWorking {
			continue
		}
		for _, slot := range entry.Slots {
			minutes += SlotMinutes(slot)
		}
	}
	return float64(minutes) / 60
}

// CountWorkingDays counts the days flagged as working.
func CountWorkingDays(s models.WeeklySchedule) int {
	n := 0
	for _, entry := range s {
		if entry.IsWorking {
			n++
		}
	}
	return n
}

// Summarize derives the weekly metrics of a schedule.
func Summarize(s models.WeeklySchedule, timezone string) models.AvailabilitySummary {
	return models.AvailabilitySummary{
		WeeklyHours: ComputeWeeklyHours(s),
		WorkingDays: CountWorkingDays(s),
		Timezone:    timezone,
	}
}

// Utilization counts bookable slots by availability.
func Utilization(slots []models.BookableTimeSlot) models.SlotUtilization {
	u := models.SlotUtilization{Total: len(slots)}
	for _, s := range slots {
		if s.IsAvailable {
			u.Available++
		} else {
			u.Booked++
		}
	}
	return u
}
