package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD or RFC 3339")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// ResolveLocation loads an IANA zone name such as "America/Sao_Paulo".
// An empty name yields fallback.
func ResolveLocation(name string, fallback *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ParseDate reads a calendar date (midnight in loc) or a full RFC 3339
// timestamp, which is then converted to loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
