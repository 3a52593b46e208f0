package models

import "time"

// Appointment statuses. Cancelled appointments never hold a slot.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked visit. Appointments are written by the booking flow; availability only reads them.
type Appointment struct {
	ID             string    `bson:"id" json:"id"`
	PractitionerID string    `bson:"practitionerId" json:"practitionerId"`
	PatientID      string    `bson:"patientId" json:"patientId"`
	Date           string    `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start          string    `bson:"start" json:"start"` // "HH:MM"
	End            string    `bson:"end" json:"end"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
