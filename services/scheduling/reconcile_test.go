package scheduling

import (
	"testing"

	"medibook/models"
	"medibook/services/availability"
)

func TestReconcile_MarksBookedSlots(t *testing.T) {
	slots := ExpandTemplate("p1", availability.DefaultSchedule(), monday, 1, 30)
	appointments := []models.Appointment{
		{ID: "apt-1", PractitionerID: "p1", Date: "2025-06-02", Start: "09:15", End: "10:00", Status: models.AppointmentConfirmed},
	}

	out, conflicts := Reconcile(slots, appointments)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts %+v", conflicts)
	}
	booked := 0
	for _, s := range out {
		if !s.IsAvailable {
			booked++
			if s.AppointmentID != "apt-1" {
				t.Errorf("slot %s held by %q", s.Start, s.AppointmentID)
			}
		}
	}
	if booked != 2 {
		t.Errorf("expected 09:00 and 09:30 to be booked, got %d booked", booked)
	}
	if !slots[0].IsAvailable {
		t.Error("Reconcile must not mutate its input")
	}
}

func TestReconcile_ReportsUncoveredAppointments(t *testing.T) {
	slots := ExpandTemplate("p1", availability.DefaultSchedule(), monday, 1, 30)
	appointments := []models.Appointment{
		{ID: "lunch", Date: "2025-06-02", Start: "13:00", End: "13:30", Status: models.AppointmentPending},
		{ID: "straddle", Date: "2025-06-02", Start: "12:30", End: "13:30", Status: models.AppointmentPending},
		{ID: "tuesday", Date: "2025-06-03", Start: "09:00", End: "09:30", Status: models.AppointmentConfirmed},
		{ID: "broken", Date: "2025-06-02", Start: "10:00", End: "09:00", Status: models.AppointmentConfirmed},
		{ID: "cancelled", Date: "2025-06-02", Start: "13:00", End: "13:30", Status: models.AppointmentCancelled},
	}

	out, conflicts := Reconcile(slots, appointments)
	got := map[string]string{}
	for _, c := range conflicts {
		got[c.AppointmentID] = c.Reason
	}
	want := map[string]string{
		"lunch":    ReasonOutsideAvailability,
		"straddle": ReasonOutsideAvailability,
		"tuesday":  ReasonOutsideAvailability,
		"broken":   ReasonInvalidTime,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for id, reason := range want {
		if got[id] != reason {
			t.Errorf("%s: expected %q, got %q", id, reason, got[id])
		}
	}

	// The covered half of the straddling appointment still holds its slot.
	for _, s := range out {
		if s.Start == "12:30" && s.AppointmentID != "straddle" {
			t.Errorf("expected 12:30 to be held by the straddling appointment, got %+v", s)
		}
	}
}

func TestReconcile_ReportsDoubleBooking(t *testing.T) {
	slots := ExpandTemplate("p1", availability.DefaultSchedule(), monday, 1, 30)
	appointments := []models.Appointment{
		{ID: "first", Date: "2025-06-02", Start: "09:00", End: "09:30", Status: models.AppointmentConfirmed},
		{ID: "second", Date: "2025-06-02", Start: "09:00", End: "09:30", Status: models.AppointmentPending},
		{ID: "partial", Date: "2025-06-02", Start: "09:00", End: "10:00", Status: models.AppointmentPending},
		{ID: "dropped", Date: "2025-06-02", Start: "09:00", End: "09:30", Status: models.AppointmentCancelled},
	}

	out, conflicts := Reconcile(slots, appointments)
	got := map[string]string{}
	for _, c := range conflicts {
		got[c.AppointmentID] = c.Reason
	}
	if len(got) != 2 || got["second"] != ReasonDoubleBooked || got["partial"] != ReasonDoubleBooked {
		t.Fatalf("expected second and partial to be double booked, got %v", got)
	}
	for _, s := range out {
		switch s.Start {
		case "09:00":
			if s.AppointmentID != "first" {
				t.Errorf("09:00 should keep its first holder, got %q", s.AppointmentID)
			}
		case "09:30":
			if s.AppointmentID != "partial" {
				t.Errorf("09:30 should be held by partial, got %q", s.AppointmentID)
			}
		}
	}
}

func TestCovers(t *testing.T) {
	ivs := []interval{{600, 630}, {540, 600}}
	if !covers(ivs, 540, 630) {
		t.Error("adjacent intervals should cover the range")
	}
	if covers([]interval{{540, 570}, {600, 630}}, 540, 630) {
		t.Error("a gap must not count as covered")
	}
	if covers(nil, 540, 570) {
		t.Error("nothing covers nothing")
	}
}
