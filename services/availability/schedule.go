package availability

import (
	"fmt"

	"medibook/models"
)

// Slot field names accepted by UpdateTimeSlot.
const (
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldBreakStart = "breakStart"
	FieldBreakEnd   = "breakEnd"
)

func dayEntry(s models.WeeklySchedule, day string) (models.DaySchedule, error) {
	if !models.IsWeekday(day) {
		return models.DaySchedule{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	return s[day], nil
}

func toggleWorkingDay(s models.WeeklySchedule, day string) error {
	entry, err := dayEntry(s, day)
	if err != nil {
		return err
	}
	if entry.IsWorking {
		s[day] = models.DaySchedule{IsWorking: false, Slots: []models.TimeSlot{}}
		return nil
	}
	s[day] = models.DaySchedule{IsWorking: true, Slots: []models.TimeSlot{DefaultTimeSlot()}}
	return nil
}

func addTimeSlot(s models.WeeklySchedule, day string, slot models.TimeSlot) error {
	entry, err := dayEntry(s, day)
	if err != nil {
		return err
	}
	if !entry.IsWorking {
		return fmt.Errorf("%w: %s", ErrDayNotWorking, day)
	}
	entry = entry.Clone()
	entry.Slots = append(entry.Slots, slot)
	s[day] = entry
	return nil
}

func removeTimeSlot(s models.WeeklySchedule, day string, index int) error {
	entry, err := dayEntry(s, day)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entry.Slots) {
		return fmt.Errorf("%w: %s has %d slot(s), got index %d", ErrSlotIndexOutOfRange, day, len(entry.Slots), index)
	}
	slots := make([]models.TimeSlot, 0, len(entry.Slots)-1)
	slots = append(slots, entry.Slots[:index]...)
	slots = append(slots, entry.Slots[index+1:]...)
	entry.Slots = slots
	s[day] = entry
	return nil
}

func updateTimeSlot(s models.WeeklySchedule, day string, index int, field, value string) error {
	entry, err := dayEntry(s, day)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(entry.Slots) {
		return fmt.Errorf("%w: %s has %d slot(s), got index %d", ErrSlotIndexOutOfRange, day, len(entry.Slots), index)
	}
	entry = entry.Clone()
	slot := &entry.Slots[index]
	switch field {
	case FieldStart:
		slot.Start = value
	case FieldEnd:
		slot.End = value
	case FieldBreakStart:
		slot.BreakStart = value
	case FieldBreakEnd:
		slot.BreakEnd = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlotField, field)
	}
	s[day] = entry
	return nil
}

func copySchedule(s models.WeeklySchedule, fromDay, toDay string) error {
	from, err := dayEntry(s, fromDay)
	if err != nil {
		return err
	}
	if _, err := dayEntry(s, toDay); err != nil {
		return err
	}
	if fromDay == toDay {
		return nil
	}
	s[toDay] = from.Clone()
	return nil
}
