package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ConflictWindow is how far apart two appointments of the same doctor must
// be. Starts within this distance, either direction, collide.
const ConflictWindow = 59 * time.Minute

var (
	ErrDuplicatePatientBooking = errors.New("patient already has an appointment with this doctor at this time")
	ErrDoctorDoubleBooked      = errors.New("doctor already has an appointment at this time")
)

// Conflict classifies why a candidate booking cannot be accepted.
type Conflict int

const (
	ConflictNone Conflict = iota
	ConflictDuplicatePatient
	ConflictDoctorDoubleBooked
)

func (c Conflict) String() string {
	switch c {
	case ConflictDuplicatePatient:
		return "duplicate_patient_booking"
	case ConflictDoctorDoubleBooked:
		return "doctor_double_booked"
	default:
		return "none"
	}
}

// Err returns the sentinel error for c, or nil for ConflictNone.
func (c Conflict) Err() error {
	switch c {
	case ConflictDuplicatePatient:
		return ErrDuplicatePatientBooking
	case ConflictDoctorDoubleBooked:
		return ErrDoctorDoubleBooked
	default:
		return nil
	}
}

// FindConflict checks candidate against existing appointments. A duplicate
// booking by the same patient takes precedence over the doctor simply being
// busy. Entries sharing candidate's non-zero ID are ignored so an update
// does not collide with itself.
func FindConflict(candidate Appointment, existing []Appointment) Conflict {
	var doctorBusy bool
	for _, a := range existing {
		if candidate.ID != uuid.Nil && a.ID == candidate.ID {
			continue
		}
		if a.ClinicID != candidate.ClinicID || a.DoctorID != candidate.DoctorID {
			continue
		}
		if !withinWindow(a.Start, candidate.Start) {
			continue
		}
		if a.PatientID == candidate.PatientID {
			return ConflictDuplicatePatient
		}
		doctorBusy = true
	}
	if doctorBusy {
		return ConflictDoctorDoubleBooked
	}
	return ConflictNone
}

func withinWindow(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= ConflictWindow
}
