package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("patient not found")
	// ErrClinicNotFound is returned when the caller's clinic has not been
	// registered yet.
	ErrClinicNotFound = errors.New("clinic not found")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Patient, error)
}
