package scheduling

import (
	"strings"
	"testing"
	"time"

	"medibook/models"

	ics "github.com/arran4/golang-ical"
)

func countEvents(t *testing.T, out string) int {
	t.Helper()
	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("exported calendar does not parse: %v", err)
	}
	return len(cal.Events())
}

func TestExportICS(t *testing.T) {
	if _, err := time.LoadLocation("Europe/Berlin"); err != nil {
		t.Skip("tzdata unavailable")
	}
	slots := []models.BookableTimeSlot{
		{ID: "a", Date: "2025-06-02", Start: "09:00", End: "09:30", IsAvailable: true},
		{ID: "b", Date: "2025-06-02", Start: "09:30", End: "10:00", IsAvailable: false, AppointmentID: "apt"},
	}
	out, err := ExportICS(slots, "Europe/Berlin", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("booked slots must be left out, got %d events", len(events))
	}
	start := events[0].GetProperty(ics.ComponentPropertyDtStart)
	// 09:00 in Berlin summer time is 07:00 UTC.
	if start == nil || start.Value != "20250602T070000Z" {
		t.Errorf("unexpected DTSTART %+v", start)
	}
	if s := events[0].GetProperty(ics.ComponentPropertySummary); s == nil || s.Value != "Available" {
		t.Errorf("unexpected SUMMARY %+v", s)
	}
}

func TestExportICS_BadInput(t *testing.T) {
	if _, err := ExportICS(nil, "Atlantis/Capital", time.Now()); err == nil {
		t.Error("expected timezone error")
	}
	bad := []models.BookableTimeSlot{{ID: "x", Date: "someday", Start: "09:00", End: "10:00", IsAvailable: true}}
	if _, err := ExportICS(bad, "UTC", time.Now()); err == nil {
		t.Error("expected date error")
	}
}
