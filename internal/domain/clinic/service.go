package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates the clinic row for id, the clinic named in the caller's
// token. Doctors and patients can only be added once it exists.
func (s *Service) Register(ctx context.Context, id uuid.UUID, req UpsertRequest) (*Clinic, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c := &Clinic{ID: id, Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Rename(ctx context.Context, id uuid.UUID, req UpsertRequest) (*Clinic, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c := &Clinic{ID: id, Name: req.Name}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
