package availability

import (
	"errors"
	"testing"
	"time"
)

func TestResolveLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*3600)

	loc, err := ResolveLocation("", brt)
	if err != nil || loc != brt {
		t.Errorf("expected fallback, got %v (%v)", loc, err)
	}

	loc, err = ResolveLocation("", nil)
	if err != nil || loc != time.UTC {
		t.Errorf("expected UTC when no fallback, got %v (%v)", loc, err)
	}

	loc, err = ResolveLocation("UTC", brt)
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v (%v)", loc, err)
	}

	if _, err := ResolveLocation("Not/AZone", brt); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	brt := time.FixedZone("BRT", -3*3600)

	got, err := ParseDate("2024-05-06", brt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 5, 6, 0, 0, 0, 0, brt)) {
		t.Errorf("expected local midnight, got %s", got)
	}

	got, err = ParseDate("2024-05-06T02:00:00Z", brt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 5 || got.Hour() != 23 {
		t.Errorf("expected 2024-05-05 23:00 local, got %s", got)
	}

	if _, err := ParseDate("06/05/2024", brt); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 5, 6, 15, 42, 10, 5, time.UTC)
	if got := StartOfDay(in); !got.Equal(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected midnight, got %s", got)
	}
}
