package scheduling

import (
	"fmt"
	"sort"
	"time"

	"medibook/models"
	"medibook/services/availability"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// slotNamespace scopes the name-based slot IDs so regenerating a day yields the same IDs.
var slotNamespace = uuid.MustParse("4f9a1c52-7d0e-5b3a-9c61-2e8d0b7f4a13")

// SlotID derives the stable ID of a generated slot.
func SlotID(practitionerID, date, start string) string {
	return uuid.NewSHA1(slotNamespace, []byte(practitionerID+"|"+date+"|"+start)).String()
}

// ExpandTemplate turns a weekly template into dated bookable slots for days consecutive
// dates starting at from. Overlapping working segments of a day are merged first, then each
// one is cut into slotMinutes pieces; a remainder shorter than slotMinutes is dropped.
func ExpandTemplate(practitionerID string, schedule models.WeeklySchedule, from time.Time, days, slotMinutes int) []models.BookableTimeSlot {
	if days <= 0 || slotMinutes <= 0 {
		return nil
	}
	var out []models.BookableTimeSlot

	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d)
		entry, ok := schedule[models.WeekdayName(date.Weekday())]
		if !ok || !entry.IsWorking {
			continue
		}
		dateStr := date.Format(dateLayout)
		for _, seg := range daySegments(entry.Slots) {
			for t := seg.Start; t+slotMinutes <= seg.End; t += slotMinutes {
				start := availability.FormatClock(t)
				out = append(out, models.BookableTimeSlot{
					ID:             SlotID(practitionerID, dateStr, start),
					PractitionerID: practitionerID,
					Date:           dateStr,
					Start:          start,
					End:            availability.FormatClock(t + slotMinutes),
					IsAvailable:    true,
				})
			}
		}
	}

	sortSlots(out)
	return out
}

// daySegments returns the working segments of a day's slots, sorted, with overlapping
// segments merged. Segments that only touch stay separate sessions.
func daySegments(slots []models.TimeSlot) []availability.Segment {
	var segs []availability.Segment
	for _, slot := range slots {
		segs = append(segs, availability.Segments(slot)...)
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })

	var merged []availability.Segment
	for _, seg := range segs {
		if n := len(merged); n > 0 && seg.Start < merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, seg.End)
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

func sortSlots(slots []models.BookableTimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Start < slots[j].Start
	})
}

// horizonWindow returns the first and last date of the booking horizon as seen in loc.
func horizonWindow(now time.Time, loc *time.Location, days int) (time.Time, string, string) {
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, days-1)
	return from, from.Format(dateLayout), to.Format(dateLayout)
}

// slotTimes converts a slot's date and clock strings into instants in loc.
func slotTimes(slot models.BookableTimeSlot, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, slot.Date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %s: %w", slot.ID, err)
	}
	start, err := availability.ParseClock(slot.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %s: %w", slot.ID, err)
	}
	end, err := availability.ParseClock(slot.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("slot %s: %w", slot.ID, err)
	}
	at := func(min int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), min/60, min%60, 0, 0, loc)
	}
	return at(start), at(end), nil
}
