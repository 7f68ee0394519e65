package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clinic/clinic/internal/platform/availability"
	"github.com/clinic/clinic/internal/platform/db"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }

func times(slots []availability.Slot) string {
	var parts []string
	for _, s := range slots {
		parts = append(parts, s.Time)
	}
	return strings.Join(parts, ",")
}

func TestPreviewSlots(t *testing.T) {
	opts := slotsOptions{fromDay: 1, toDay: 5, fromTime: "12:00", toTime: "15:00", date: "2024-05-07", tz: "America/Sao_Paulo"}
	slots, err := previewSlots(opts, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := times(slots); got != "09:00,10:00,11:00,12:00" {
		t.Errorf("expected 09:00,10:00,11:00,12:00, got %s", got)
	}
}

func TestPreviewSlots_DefaultsToToday(t *testing.T) {
	opts := slotsOptions{fromDay: 0, toDay: 0, fromTime: "09:00", toTime: "10:00", tz: "UTC"}
	slots, err := previewSlots(opts, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2024-05-06 is a Monday, outside a Sunday-only window.
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %s", times(slots))
	}
}

func TestPreviewSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    slotsOptions
		wantErr error
	}{
		{"inverted window", slotsOptions{fromDay: 1, toDay: 5, fromTime: "17:00", toTime: "09:00", tz: "UTC"}, availability.ErrInvalidAvailabilityWindow},
		{"bad week day", slotsOptions{fromDay: 1, toDay: 9, fromTime: "09:00", toTime: "17:00", tz: "UTC"}, availability.ErrInvalidWeekDay},
		{"bad zone", slotsOptions{fromDay: 1, toDay: 5, fromTime: "09:00", toTime: "17:00", tz: "Nowhere/City"}, availability.ErrInvalidTimezone},
		{"bad date", slotsOptions{fromDay: 1, toDay: 5, fromTime: "09:00", toTime: "17:00", tz: "UTC", date: "tomorrow"}, availability.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := previewSlots(tt.opts, fixedNow); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlotsCmd_Output(t *testing.T) {
	cmd := slotsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--from-day", "0", "--to-day", "6", "--from", "21:30", "--to", "23:30", "--date", "2024-05-07"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "21:30\n22:30\n23:30\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := db.NewMigrator(nil, migrationsFS("")).LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded migration 1, got %+v", migs)
	}
	if !strings.Contains(migs[0].SQL, "CREATE TABLE IF NOT EXISTS appointments") {
		t.Error("expected appointments table in first migration")
	}
}

func TestPrintMigrationStatus(t *testing.T) {
	applied := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	printMigrationStatus(&out, []db.MigrationStatus{
		{Version: 1, Name: "clinic", Applied: true, AppliedAt: &applied},
		{Version: 2, Name: "indexes"},
	})
	got := out.String()
	for _, want := range []string{"VERSION", "applied", "2024-05-06 10:00:00", "pending"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestNewLogger_JSONOutsideDevelopment(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger("production", &out)
	logger.Info().Msg("hello")
	if !strings.HasPrefix(out.String(), "{") {
		t.Errorf("expected JSON line, got %q", out.String())
	}
}
