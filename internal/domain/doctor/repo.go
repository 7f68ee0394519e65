package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("doctor not found")
	// ErrClinicNotFound is returned when the caller's clinic has not been
	// registered yet.
	ErrClinicNotFound = errors.New("clinic not found")
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Doctor, error)
}
