package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/availability"
)

// Appointment is a stored booking. Date is the UTC start instant.
type Appointment struct {
	ID                      uuid.UUID `json:"id"`
	ClinicID                uuid.UUID `json:"clinic_id"`
	PatientID               uuid.UUID `json:"patient_id"`
	DoctorID                uuid.UUID `json:"doctor_id"`
	Date                    time.Time `json:"date"`
	AppointmentPriceInCents int       `json:"appointment_price_in_cents"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (a *Appointment) toEngine() availability.Appointment {
	return availability.Appointment{
		ID:        a.ID,
		ClinicID:  a.ClinicID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Start:     a.Date,
	}
}

func toEngine(items []*Appointment) []availability.Appointment {
	out := make([]availability.Appointment, 0, len(items))
	for _, a := range items {
		out = append(out, a.toEngine())
	}
	return out
}

// AppointmentView is an appointment with patient and doctor names, as
// returned by the listing.
type AppointmentView struct {
	Appointment
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
}

// BookingRequest is the body of POST /appointments, PUT /appointments/:id
// and POST /appointments/check. Date is YYYY-MM-DD in the viewer's zone or
// an RFC 3339 timestamp; Time, when set, replaces the date's time of day.
type BookingRequest struct {
	ID                      *uuid.UUID `json:"id,omitempty"`
	PatientID               uuid.UUID  `json:"patient_id" validate:"required"`
	DoctorID                uuid.UUID  `json:"doctor_id" validate:"required"`
	Date                    string     `json:"date" validate:"required"`
	Time                    string     `json:"time" validate:"omitempty,timeofday"`
	AppointmentPriceInCents int        `json:"appointment_price_in_cents" validate:"omitempty,gte=1"`
}

func (r *BookingRequest) normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
}

// CheckResult is the answer of a dry-run booking.
type CheckResult struct {
	Available bool      `json:"available"`
	Conflict  string    `json:"conflict"`
	Date      time.Time `json:"date"`
}

// SlotsView lists the bookable slots of one doctor on one local date.
type SlotsView struct {
	DoctorID uuid.UUID           `json:"doctor_id"`
	Date     string              `json:"date"`
	Timezone string              `json:"timezone"`
	Slots    []availability.Slot `json:"slots"`
}
