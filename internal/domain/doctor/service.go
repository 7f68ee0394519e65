package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/availability"
	"github.com/clinic/clinic/internal/platform/collation"
	"github.com/clinic/clinic/internal/platform/validation"
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// validate normalizes req and returns the window it describes.
func validate(req *UpsertRequest) (availability.Window, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return availability.Window{}, err
	}
	return availability.NewWindow(req.AvailableFromWeekDay, req.AvailableToWeekDay,
		req.AvailableFromTime, req.AvailableToTime)
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req UpsertRequest) (*Doctor, error) {
	w, err := validate(&req)
	if err != nil {
		return nil, err
	}
	d := &Doctor{ClinicID: clinicID}
	req.apply(d, w)
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req UpsertRequest) (*Doctor, error) {
	w, err := validate(&req)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	req.apply(d, w)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetByID(ctx, clinicID, id)
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	return s.repo.Delete(ctx, clinicID, id)
}

// List returns the clinic's doctors ordered by name.
func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*Doctor, error) {
	items, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	collation.SortByName(items, func(d *Doctor) string { return d.Name })
	return items, nil
}

// Availability summarizes when the doctor works as seen from loc. When
// date is non-zero it also reports whether that date can be picked: not
// in the past and on one of the doctor's week days.
func (s *Service) Availability(ctx context.Context, clinicID, id uuid.UUID, loc *time.Location, date time.Time) (*AvailabilityView, error) {
	d, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	w, err := d.Window()
	if err != nil {
		return nil, err
	}

	engine := availability.NewEngine(loc, availability.WithClock(s.clock))
	view := &AvailabilityView{
		DoctorID: d.ID,
		Timezone: loc.String(),
		Summary:  engine.Describe(w),
	}
	if !date.IsZero() {
		day := availability.StartOfDay(date.In(loc))
		today := availability.StartOfDay(engine.Now())
		ok := !day.Before(today) && engine.IsDateInWindow(day, w)
		view.Date = day.Format(time.DateOnly)
		view.DateAvailable = &ok
	}
	return view, nil
}
