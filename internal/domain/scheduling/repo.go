package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert inserts a or, when a.ID already exists in the same clinic,
	// updates it. An ID owned by another clinic yields ErrAppointmentNotFound.
	Upsert(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error)
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*AppointmentView, int, error)
	// ListForDoctorBetween returns the doctor's appointments starting in
	// [from, to], both ends inclusive.
	ListForDoctorBetween(ctx context.Context, clinicID, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}
