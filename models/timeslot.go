package models

import "time"

// BookableTimeSlot is a concrete dated slot generated from a practitioner's weekly template.
type BookableTimeSlot struct {
	ID             string    `bson:"id" json:"id"`
	PractitionerID string    `bson:"practitionerId" json:"practitionerId"`
	Date           string    `bson:"date" json:"date"`   // e.g. "2025-06-02"
	Start          string    `bson:"start" json:"start"` // "HH:MM" in the practitioner's timezone
	End            string    `bson:"end" json:"end"`
	IsAvailable    bool      `bson:"isAvailable" json:"isAvailable"`
	AppointmentID  string    `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"-"`
}

// SlotUtilization counts bookable slots by availability.
type SlotUtilization struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Booked    int `json:"booked"`
}

// TimeSlotsResponse is the payload of the time-slots listing.
type TimeSlotsResponse struct {
	TimeSlots []BookableTimeSlot `json:"timeSlots"`
	SlotUtilization
}
