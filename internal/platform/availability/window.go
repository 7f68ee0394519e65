package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Errors returned while building availability inputs.
var (
	ErrInvalidTimeFormat         = errors.New("invalid time format, expected HH:MM or HH:MM:SS")
	ErrInvalidWeekDay            = errors.New("week day must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidAvailabilityWindow = errors.New("available from time must be before available to time")
)

// WeekDay is a day of the week, Sunday=0 through Saturday=6.
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d WeekDay) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d WeekDay) String() string {
	if !d.Valid() {
		return "WeekDay(" + strconv.Itoa(int(d)) + ")"
	}
	return time.Weekday(d).String()
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" with two digits per field.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	var fields [3]int
	limits := [3]int{23, 59, 59}
	for i, p := range parts {
		if len(p) != 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
		fields[i] = n
	}
	return TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}, nil
}

// MustParseTimeOfDay is like ParseTimeOfDay but panics on error.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String formats as HH:MM:SS, the storage form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// HHMM formats as HH:MM, the slot form.
func (t TimeOfDay) HHMM() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Seconds() < o.Seconds()
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a doctor's recurring weekly availability. Times are UTC.
// FromWeekDay may be greater than ToWeekDay, in which case the range wraps
// through Saturday/Sunday (Friday to Monday for example).
type Window struct {
	FromWeekDay WeekDay   `json:"from_week_day"`
	ToWeekDay   WeekDay   `json:"to_week_day"`
	FromTime    TimeOfDay `json:"from_time"`
	ToTime      TimeOfDay `json:"to_time"`
}

// NewWindow validates raw doctor fields and builds a Window.
func NewWindow(fromDay, toDay int, fromTime, toTime string) (Window, error) {
	w := Window{FromWeekDay: WeekDay(fromDay), ToWeekDay: WeekDay(toDay)}
	if !w.FromWeekDay.Valid() || !w.ToWeekDay.Valid() {
		return Window{}, ErrInvalidWeekDay
	}

	var err error
	if w.FromTime, err = ParseTimeOfDay(fromTime); err != nil {
		return Window{}, err
	}
	if w.ToTime, err = ParseTimeOfDay(toTime); err != nil {
		return Window{}, err
	}
	if !w.FromTime.Before(w.ToTime) {
		return Window{}, ErrInvalidAvailabilityWindow
	}
	return w, nil
}

func (w Window) Wraps() bool {
	return w.FromWeekDay > w.ToWeekDay
}

// ContainsWeekDay reports whether d falls inside the weekday range.
func (w Window) ContainsWeekDay(d WeekDay) bool {
	if w.Wraps() {
		return d >= w.FromWeekDay || d <= w.ToWeekDay
	}
	return d >= w.FromWeekDay && d <= w.ToWeekDay
}

// IsDateInWindow reports whether the weekday of date, in date's own
// location, is one the doctor works.
func IsDateInWindow(date time.Time, w Window) bool {
	return w.ContainsWeekDay(WeekDay(date.Weekday()))
}

// CombineDateAndTime applies an optional "HH:MM" to date, zeroing seconds.
// An empty hhmm keeps date's own time component.
func CombineDateAndTime(date time.Time, hhmm string) (time.Time, error) {
	if hhmm == "" {
		return date, nil
	}
	tod, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, 0, 0, date.Location()), nil
}
