package availability

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", TimeOfDay{9, 0, 0}, false},
		{"09:30:15", TimeOfDay{9, 30, 15}, false},
		{"23:59:59", TimeOfDay{23, 59, 59}, false},
		{"00:00", TimeOfDay{0, 0, 0}, false},
		{"24:00", TimeOfDay{}, true},
		{"9:00", TimeOfDay{}, true},
		{"09:60", TimeOfDay{}, true},
		{"09:00:60", TimeOfDay{}, true},
		{"0900", TimeOfDay{}, true},
		{"ab:cd", TimeOfDay{}, true},
		{"09:00:00:00", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("ParseTimeOfDay(%q): expected ErrInvalidTimeFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestTimeOfDay_Format(t *testing.T) {
	tod := TimeOfDay{Hour: 7, Minute: 5, Second: 3}
	if tod.String() != "07:05:03" {
		t.Errorf("expected 07:05:03, got %s", tod.String())
	}
	if tod.HHMM() != "07:05" {
		t.Errorf("expected 07:05, got %s", tod.HHMM())
	}
}

func TestTimeOfDay_UnmarshalText(t *testing.T) {
	var tod TimeOfDay
	if err := tod.UnmarshalText([]byte("18:45:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 18 || tod.Minute != 45 {
		t.Errorf("expected 18:45, got %s", tod.HHMM())
	}
	if err := tod.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(1, 5, "09:00:00", "17:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.FromWeekDay != Monday || w.ToWeekDay != Friday {
		t.Errorf("expected Monday-Friday, got %s-%s", w.FromWeekDay, w.ToWeekDay)
	}
	if w.Wraps() {
		t.Error("Monday-Friday should not wrap")
	}

	if _, err := NewWindow(1, 7, "09:00", "17:00"); !errors.Is(err, ErrInvalidWeekDay) {
		t.Errorf("expected ErrInvalidWeekDay, got %v", err)
	}
	if _, err := NewWindow(-1, 3, "09:00", "17:00"); !errors.Is(err, ErrInvalidWeekDay) {
		t.Errorf("expected ErrInvalidWeekDay, got %v", err)
	}
	if _, err := NewWindow(1, 5, "17:00", "09:00"); !errors.Is(err, ErrInvalidAvailabilityWindow) {
		t.Errorf("expected ErrInvalidAvailabilityWindow, got %v", err)
	}
	if _, err := NewWindow(1, 5, "09:00", "09:00"); !errors.Is(err, ErrInvalidAvailabilityWindow) {
		t.Errorf("expected ErrInvalidAvailabilityWindow for equal times, got %v", err)
	}
	if _, err := NewWindow(1, 5, "9am", "17:00"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}
}

// 2024-05-05 is a Sunday.
func dateOn(wd WeekDay) time.Time {
	return time.Date(2024, 5, 5+int(wd), 12, 0, 0, 0, time.UTC)
}

func TestIsDateInWindow_SingleDay(t *testing.T) {
	w := Window{FromWeekDay: Wednesday, ToWeekDay: Wednesday}
	for d := Sunday; d <= Saturday; d++ {
		got := IsDateInWindow(dateOn(d), w)
		if got != (d == Wednesday) {
			t.Errorf("%s: expected %v, got %v", d, d == Wednesday, got)
		}
	}
}

func TestIsDateInWindow_Wrapping(t *testing.T) {
	w := Window{FromWeekDay: Friday, ToWeekDay: Monday}
	inside := map[WeekDay]bool{Friday: true, Saturday: true, Sunday: true, Monday: true}
	for d := Sunday; d <= Saturday; d++ {
		got := IsDateInWindow(dateOn(d), w)
		if got != inside[d] {
			t.Errorf("%s: expected %v, got %v", d, inside[d], got)
		}
	}
}

func TestIsDateInWindow_FullWeek(t *testing.T) {
	w := Window{FromWeekDay: Sunday, ToWeekDay: Saturday}
	for d := Sunday; d <= Saturday; d++ {
		if !IsDateInWindow(dateOn(d), w) {
			t.Errorf("%s should be inside a Sunday-Saturday window", d)
		}
	}
}

func TestCombineDateAndTime(t *testing.T) {
	date := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	got, err := CombineDateAndTime(date, "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}

	withSeconds := time.Date(2024, 5, 6, 8, 15, 42, 0, time.UTC)
	got, err = CombineDateAndTime(withSeconds, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(withSeconds) {
		t.Errorf("expected date to be kept as is, got %s", got)
	}

	got, err = CombineDateAndTime(withSeconds, "09:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Second() != 0 {
		t.Errorf("expected seconds to be zeroed, got %d", got.Second())
	}

	if _, err := CombineDateAndTime(date, "25:00"); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("expected ErrInvalidTimeFormat, got %v", err)
	}
}
