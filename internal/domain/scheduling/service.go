package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/doctor"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/platform/availability"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/lock"
	"github.com/clinic/clinic/internal/platform/validation"
)

var (
	ErrDateOutsideAvailability = errors.New("doctor is not available on the selected date")
	ErrTimeOutsideAvailability = errors.New("selected time is not one of the doctor's slots")
	ErrDateInPast              = errors.New("selected date is in the past")
	ErrBookingInProgress       = errors.New("another booking for this doctor is in progress, try again")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrMissingClinic           = errors.New("clinic not found")
)

type DoctorReader interface {
	Get(ctx context.Context, clinicID, id uuid.UUID) (*doctor.Doctor, error)
}

type PatientReader interface {
	Get(ctx context.Context, clinicID, id uuid.UUID) (*patient.Patient, error)
}

// TxRunner runs fn in one transaction; *db.TxManager satisfies it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Releaser, error)
}

type Service struct {
	repo     Repository
	doctors  DoctorReader
	patients PatientReader
	tx       TxRunner
	locker   Locker
	clock    func() time.Time
	logger   zerolog.Logger
}

type Option func(*Service)

func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

func NewService(repo Repository, doctors DoctorReader, patients PatientReader, tx TxRunner, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		tx:       tx,
		locker:   lock.Noop{},
		clock:    time.Now,
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) engine(loc *time.Location) *availability.Engine {
	return availability.NewEngine(loc, availability.WithClock(s.clock))
}

// prepare validates req as seen from loc and builds the candidate
// appointment. It does not look at other appointments.
func (s *Service) prepare(ctx context.Context, clinicID uuid.UUID, req BookingRequest, loc *time.Location) (*Appointment, error) {
	if clinicID == uuid.Nil {
		return nil, ErrMissingClinic
	}
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	date, err := availability.ParseDate(req.Date, loc)
	if err != nil {
		return nil, err
	}
	start, err := availability.CombineDateAndTime(date, req.Time)
	if err != nil {
		return nil, err
	}

	if _, err := s.patients.Get(ctx, clinicID, req.PatientID); err != nil {
		return nil, err
	}
	d, err := s.doctors.Get(ctx, clinicID, req.DoctorID)
	if err != nil {
		return nil, err
	}
	w, err := d.Window()
	if err != nil {
		return nil, err
	}

	engine := s.engine(loc)
	if !engine.IsDateInWindow(start, w) {
		return nil, ErrDateOutsideAvailability
	}
	if availability.StartOfDay(start.In(loc)).Before(availability.StartOfDay(engine.Now())) {
		return nil, ErrDateInPast
	}
	if req.Time != "" && !hasSlot(engine.EnumerateSlots(w, d.ID, start, nil), start.In(loc).Format("15:04")) {
		return nil, ErrTimeOutsideAvailability
	}

	a := &Appointment{
		ClinicID:                clinicID,
		PatientID:               req.PatientID,
		DoctorID:                d.ID,
		Date:                    start.UTC(),
		AppointmentPriceInCents: req.AppointmentPriceInCents,
	}
	if req.ID != nil {
		a.ID = *req.ID
	}
	if a.AppointmentPriceInCents == 0 {
		a.AppointmentPriceInCents = d.AppointmentPriceInCents
	}
	return a, nil
}

func hasSlot(slots []availability.Slot, hhmm string) bool {
	for _, sl := range slots {
		if sl.Time == hhmm {
			return true
		}
	}
	return false
}

func (s *Service) findConflict(ctx context.Context, a *Appointment) (availability.Conflict, error) {
	existing, err := s.repo.ListForDoctorBetween(ctx, a.ClinicID, a.DoctorID,
		a.Date.Add(-availability.ConflictWindow), a.Date.Add(availability.ConflictWindow))
	if err != nil {
		return availability.ConflictNone, err
	}
	return availability.FindConflict(a.toEngine(), toEngine(existing)), nil
}

// Book creates an appointment, or updates it when req.ID names an existing
// one. The conflict check and the write share one serializable transaction,
// held under a per-doctor lock when one is configured.
func (s *Service) Book(ctx context.Context, clinicID uuid.UUID, req BookingRequest, loc *time.Location) (*Appointment, error) {
	a, err := s.prepare(ctx, clinicID, req, loc)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.DoctorKey(clinicID, a.DoctorID))
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, ErrBookingInProgress
	}
	if err != nil {
		s.logger.Error().Err(err).Str("doctor_id", a.DoctorID.String()).Msg("failed to acquire booking lock")
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error().Err(err).Str("doctor_id", a.DoctorID.String()).Msg("failed to release booking lock")
		}
	}()

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		conflict, err := s.findConflict(ctx, a)
		if err != nil {
			return err
		}
		if conflict != availability.ConflictNone {
			s.logger.Info().
				Str("conflict", conflict.String()).
				Str("clinic_id", clinicID.String()).
				Str("doctor_id", a.DoctorID.String()).
				Time("date", a.Date).
				Msg("booking rejected")
			return conflict.Err()
		}
		return s.repo.Upsert(ctx, a)
	})
	if errors.Is(err, db.ErrSerialization) {
		s.logger.Warn().Err(err).Str("doctor_id", a.DoctorID.String()).Msg("booking serialization failure")
		return nil, ErrBookingInProgress
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update moves or edits an existing appointment of the clinic.
func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req BookingRequest, loc *time.Location) (*Appointment, error) {
	if clinicID == uuid.Nil {
		return nil, ErrMissingClinic
	}
	if _, err := s.repo.GetByID(ctx, clinicID, id); err != nil {
		return nil, err
	}
	req.ID = &id
	return s.Book(ctx, clinicID, req, loc)
}

// Check runs every booking rule without writing anything.
func (s *Service) Check(ctx context.Context, clinicID uuid.UUID, req BookingRequest, loc *time.Location) (*CheckResult, error) {
	a, err := s.prepare(ctx, clinicID, req, loc)
	if err != nil {
		return nil, err
	}
	conflict, err := s.findConflict(ctx, a)
	if err != nil {
		return nil, err
	}
	return &CheckResult{
		Available: conflict == availability.ConflictNone,
		Conflict:  conflict.String(),
		Date:      a.Date,
	}, nil
}

// Slots lists the doctor's hourly slots on date's calendar day in loc,
// marking those already booked.
func (s *Service) Slots(ctx context.Context, clinicID, doctorID uuid.UUID, date time.Time, loc *time.Location) (*SlotsView, error) {
	if clinicID == uuid.Nil {
		return nil, ErrMissingClinic
	}
	d, err := s.doctors.Get(ctx, clinicID, doctorID)
	if err != nil {
		return nil, err
	}
	w, err := d.Window()
	if err != nil {
		return nil, err
	}

	day := availability.StartOfDay(date.In(loc))
	existing, err := s.repo.ListForDoctorBetween(ctx, clinicID, d.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &SlotsView{
		DoctorID: d.ID,
		Date:     day.Format(time.DateOnly),
		Timezone: loc.String(),
		Slots:    s.engine(loc).EnumerateSlots(w, d.ID, day, toEngine(existing)),
	}, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*Appointment, error) {
	if clinicID == uuid.Nil {
		return nil, ErrMissingClinic
	}
	return s.repo.GetByID(ctx, clinicID, id)
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	if clinicID == uuid.Nil {
		return ErrMissingClinic
	}
	return s.repo.Delete(ctx, clinicID, id)
}

// List returns the clinic's appointments, latest first.
func (s *Service) List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*AppointmentView, int, error) {
	if clinicID == uuid.Nil {
		return nil, 0, ErrMissingClinic
	}
	return s.repo.ListByClinic(ctx, clinicID, limit, offset)
}
