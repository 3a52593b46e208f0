package availability

import "medibook/models"

const (
	DefaultStart      = "09:00"
	DefaultEnd        = "17:00"
	DefaultBreakStart = "13:00"
	DefaultBreakEnd   = "14:00"
	DefaultTimezone   = "UTC"
)

// DefaultTimeSlot is the range seeded into a day when it becomes a working day.
func DefaultTimeSlot() models.TimeSlot {
	return models.TimeSlot{
		Start:      DefaultStart,
		End:        DefaultEnd,
		BreakStart: DefaultBreakStart,
		BreakEnd:   DefaultBreakEnd,
	}
}

// DefaultSchedule returns Monday to Friday with one default slot each; the weekend is off.
func DefaultSchedule() models.WeeklySchedule {
	s := make(models.WeeklySchedule, len(models.Weekdays))
	for _, day := range models.Weekdays {
		if day == models.Saturday || day == models.Sunday {
			s[day] = models.DaySchedule{IsWorking: false, Slots: []models.TimeSlot{}}
			continue
		}
		s[day] = models.DaySchedule{IsWorking: true, Slots: []models.TimeSlot{DefaultTimeSlot()}}
	}
	return s
}

// EmptySchedule returns a schedule with every day non-working.
func EmptySchedule() models.WeeklySchedule {
	s := make(models.WeeklySchedule, len(models.Weekdays))
	for _, day := range models.Weekdays {
		s[day] = models.DaySchedule{Slots: []models.TimeSlot{}}
	}
	return s
}

// Normalize copies the seven weekday entries of s, filling in missing days as non-working.
// Keys that are not weekday names are dropped.
func Normalize(s models.WeeklySchedule) models.WeeklySchedule {
	out := make(models.WeeklySchedule, len(models.Weekdays))
	for _, day := range models.Weekdays {
		entry, ok := s[day]
		if !ok {
			out[day] = models.DaySchedule{Slots: []models.TimeSlot{}}
			continue
		}
		out[day] = entry.Clone()
	}
	return out
}
