package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/collation"
	"github.com/clinic/clinic/internal/platform/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req UpsertRequest) (*Patient, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p := &Patient{ClinicID: clinicID}
	req.apply(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req UpsertRequest) (*Patient, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	req.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, clinicID, id)
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	return s.repo.Delete(ctx, clinicID, id)
}

// List returns the clinic's patients ordered by name, ignoring case and
// accents.
func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*Patient, error) {
	items, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	collation.SortByName(items, func(p *Patient) string { return p.Name })
	return items, nil
}
