package scheduling

import (
	"fmt"
	"time"

	"medibook/models"
	"medibook/services/availability"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//medibook//availability//EN"

// ExportICS renders the available slots as VEVENTs. Booked slots are left out.
func ExportICS(slots []models.BookableTimeSlot, timezone string, stamp time.Time) (string, error) {
	_, loc, err := availability.ResolveTimezone(timezone)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName("Availability")
	cal.SetXWRTimezone(loc.String())

	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}
		start, end, err := slotTimes(slot, loc)
		if err != nil {
			return "", fmt.Errorf("failed to export slot: %w", err)
		}
		event := cal.AddEvent(slot.ID + "@medibook")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary("Available")
		event.SetProperty(ics.ComponentPropertyStatus, "TENTATIVE")
	}
	return cal.Serialize(), nil
}
