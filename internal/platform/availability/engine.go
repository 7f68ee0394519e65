package availability

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a bookable local time of day for a given date.
type Slot struct {
	Time     string `json:"time"`
	Occupied bool   `json:"is_occupied"`
}

// Appointment is the minimal booking shape the engine reasons about.
// ID is optional and only used to skip an appointment when it is being
// re-checked against its own stored copy.
type Appointment struct {
	ID        uuid.UUID `json:"id,omitempty"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Start     time.Time `json:"start"`
}

// Bounds are the local hour/minute pairs of a window's UTC times.
type Bounds struct {
	FromHour   int
	FromMinute int
	ToHour     int
	ToMinute   int
}

// Summary describes a window for display: the weekday range, local
// HH:MM bounds and whether the doctor is working at the engine's "now".
type Summary struct {
	FromWeekDay     WeekDay `json:"from_week_day"`
	ToWeekDay       WeekDay `json:"to_week_day"`
	FromWeekDayName string  `json:"from_week_day_name"`
	ToWeekDayName   string  `json:"to_week_day_name"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	AvailableNow    bool    `json:"available_now"`
}

// Engine converts UTC availability windows into a viewer's local time.
// It holds no mutable state; the clock is injectable for tests.
type Engine struct {
	loc *time.Location
	now func() time.Time
}

type Option func(*Engine)

// WithClock fixes the engine's notion of "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine presenting times in loc. A nil loc means UTC.
func NewEngine(loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{loc: loc, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Location() *time.Location { return e.loc }

// Now returns the engine clock in the engine's location.
func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

// localClock reads t (a UTC time of day) back in the engine location,
// anchored on today's UTC date. Offsets that depend on the date (DST)
// are therefore those in effect today.
func (e *Engine) localClock(t TimeOfDay) TimeOfDay {
	y, m, d := e.now().UTC().Date()
	l := time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, time.UTC).In(e.loc)
	return TimeOfDay{Hour: l.Hour(), Minute: l.Minute(), Second: l.Second()}
}

// LocalBounds converts the window's UTC times into local hour and minute.
func (e *Engine) LocalBounds(w Window) Bounds {
	from := e.localClock(w.FromTime)
	to := e.localClock(w.ToTime)
	return Bounds{FromHour: from.Hour, FromMinute: from.Minute, ToHour: to.Hour, ToMinute: to.Minute}
}

// IsDateInWindow checks date's weekday as seen in the engine location.
func (e *Engine) IsDateInWindow(date time.Time, w Window) bool {
	return IsDateInWindow(date.In(e.loc), w)
}

// EnumerateSlots lists hourly slots for date between the window's local
// bounds, inclusive of the end when the minutes line up. Slots never cross
// midnight. A slot is occupied when one of existing belongs to doctorID
// and starts on the same local date at the same HH:MM.
func (e *Engine) EnumerateSlots(w Window, doctorID uuid.UUID, date time.Time, existing []Appointment) []Slot {
	slots := []Slot{}
	day := date.In(e.loc)
	if !IsDateInWindow(day, w) {
		return slots
	}

	taken := make(map[string]bool)
	for _, a := range existing {
		if a.DoctorID != doctorID {
			continue
		}
		start := a.Start.In(e.loc)
		if !sameDate(start, day) {
			continue
		}
		taken[start.Format("15:04")] = true
	}

	b := e.LocalBounds(w)
	h, m := b.FromHour, b.FromMinute
	for h < b.ToHour || (h == b.ToHour && m <= b.ToMinute) {
		label := TimeOfDay{Hour: h, Minute: m}.HHMM()
		slots = append(slots, Slot{Time: label, Occupied: taken[label]})
		h++
		if h >= 24 {
			break
		}
	}
	return slots
}

// IsAvailableAt reports whether instant falls on a working weekday and
// strictly between the window's local start and end times.
func (e *Engine) IsAvailableAt(w Window, instant time.Time) bool {
	local := instant.In(e.loc)
	if !IsDateInWindow(local, w) {
		return false
	}
	now := TimeOfDay{Hour: local.Hour(), Minute: local.Minute(), Second: local.Second()}.Seconds()
	return now > e.localClock(w.FromTime).Seconds() && now < e.localClock(w.ToTime).Seconds()
}

// Describe builds the display summary for w.
func (e *Engine) Describe(w Window) Summary {
	from := e.localClock(w.FromTime)
	to := e.localClock(w.ToTime)
	return Summary{
		FromWeekDay:     w.FromWeekDay,
		ToWeekDay:       w.ToWeekDay,
		FromWeekDayName: w.FromWeekDay.String(),
		ToWeekDayName:   w.ToWeekDay.String(),
		From:            from.HHMM(),
		To:              to.HHMM(),
		AvailableNow:    e.IsAvailableAt(w, e.now()),
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
