package models

import "time"

// Day-of-week keys of a WeeklySchedule.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists the schedule keys in display order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayName maps a time.Weekday onto its schedule key.
func WeekdayName(d time.Weekday) string {
	return Weekdays[(int(d)+6)%7]
}

// IsWeekday reports whether name is one of the seven schedule keys.
func IsWeekday(name string) bool {
	for _, d := range Weekdays {
		if d == name {
			return true
		}
	}
	return false
}

// TimeSlot is a recurring time-of-day range within a working day.
// Times are "HH:MM" (24h). The break is optional; an empty string means absent.
type TimeSlot struct {
	Start      string `bson:"start" json:"start"`
	End        string `bson:"end" json:"end"`
	BreakStart string `bson:"breakStart,omitempty" json:"breakStart,omitempty"`
	BreakEnd   string `bson:"breakEnd,omitempty" json:"breakEnd,omitempty"`
}

// HasBreak reports whether both break fields are set.
func (s TimeSlot) HasBreak() bool {
	return s.BreakStart != "" && s.BreakEnd != ""
}

// DaySchedule is one day of the weekly template.
type DaySchedule struct {
	IsWorking bool       `bson:"isWorking" json:"isWorking"`
	Slots     []TimeSlot `bson:"slots" json:"slots"`
}

// WeeklySchedule is the recurring availability template keyed by weekday name.
type WeeklySchedule map[string]DaySchedule

// Clone returns a deep copy; no slot slice is shared with the receiver.
func (w WeeklySchedule) Clone() WeeklySchedule {
	if w == nil {
		return nil
	}
	out := make(WeeklySchedule, len(w))
	for day, entry := range w {
		out[day] = entry.Clone()
	}
	return out
}

// Clone returns a deep copy of the day entry.
func (d DaySchedule) Clone() DaySchedule {
	slots := make([]TimeSlot, len(d.Slots))
	copy(slots, d.Slots)
	return DaySchedule{IsWorking: d.IsWorking, Slots: slots}
}

// AvailabilityDocument is the persisted and transported form of a practitioner's template.
type AvailabilityDocument struct {
	PractitionerID string         `bson:"practitionerId" json:"-"`
	Schedule       WeeklySchedule `bson:"schedule" json:"schedule"`
	Timezone       string         `bson:"timezone" json:"timezone"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"-"`
}

// AvailabilitySummary holds the derived weekly metrics.
type AvailabilitySummary struct {
	WeeklyHours float64 `json:"weeklyHours"`
	WorkingDays int     `json:"workingDays"`
	Timezone    string  `json:"timezone"`
}
