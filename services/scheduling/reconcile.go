package scheduling

import (
	"sort"

	"medibook/models"
	"medibook/services/availability"
)

// Conflict reasons.
const (
	ReasonOutsideAvailability = "outside availability"
	ReasonInvalidTime         = "invalid appointment time"
	ReasonDoubleBooked        = "double booked"
)

// Conflict is an active appointment that the current template no longer covers,
// or one that overlaps a slot an earlier appointment already holds.
type Conflict struct {
	AppointmentID string `json:"appointmentId"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Reason        string `json:"reason"`
}

type interval struct{ start, end int }

// Reconcile marks every generated slot that an active appointment overlaps as booked by it
// and reports the appointments not fully covered by generated slots. An appointment that
// overlaps a slot already held by another one is reported as double booked; the slot keeps
// its first holder. Appointments are never moved or cancelled here.
func Reconcile(slots []models.BookableTimeSlot, appointments []models.Appointment) ([]models.BookableTimeSlot, []Conflict) {
	out := make([]models.BookableTimeSlot, len(slots))
	copy(out, slots)

	byDate := make(map[string][]int)
	for i, s := range out {
		byDate[s.Date] = append(byDate[s.Date], i)
	}

	var conflicts []Conflict
	for _, apt := range appointments {
		if apt.Status == models.AppointmentCancelled {
			continue
		}
		aStart, errS := availability.ParseClock(apt.Start)
		aEnd, errE := availability.ParseClock(apt.End)
		if errS != nil || errE != nil || aEnd <= aStart {
			conflicts = append(conflicts, newConflict(apt, ReasonInvalidTime))
			continue
		}

		var covered []interval
		clash := false
		for _, i := range byDate[apt.Date] {
			sStart, err := availability.ParseClock(out[i].Start)
			if err != nil {
				continue
			}
			sEnd, err := availability.ParseClock(out[i].End)
			if err != nil {
				continue
			}
			if sStart < aEnd && aStart < sEnd {
				switch {
				case out[i].IsAvailable:
					out[i].IsAvailable = false
					out[i].AppointmentID = apt.ID
				case out[i].AppointmentID != apt.ID:
					clash = true
				}
				covered = append(covered, interval{sStart, sEnd})
			}
		}
		switch {
		case !covers(covered, aStart, aEnd):
			conflicts = append(conflicts, newConflict(apt, ReasonOutsideAvailability))
		case clash:
			conflicts = append(conflicts, newConflict(apt, ReasonDoubleBooked))
		}
	}
	return out, conflicts
}

func newConflict(apt models.Appointment, reason string) Conflict {
	return Conflict{
		AppointmentID: apt.ID,
		Date:          apt.Date,
		Start:         apt.Start,
		End:           apt.End,
		Reason:        reason,
	}
}

// covers reports whether the union of ivs contains [start, end).
func covers(ivs []interval, start, end int) bool {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })
	reach := start
	for _, iv := range ivs {
		if iv.start > reach {
			return false
		}
		reach = max(reach, iv.end)
		if reach >= end {
			return true
		}
	}
	return reach >= end
}
