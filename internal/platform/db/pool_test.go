package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func newTestTracer(buf *bytes.Buffer, steps ...time.Duration) *queryTracer {
	base := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	calls := 0
	return &queryTracer{
		logger:    zerolog.New(buf),
		threshold: 100 * time.Millisecond,
		now: func() time.Time {
			t := base
			if calls > 0 && calls-1 < len(steps) {
				t = base.Add(steps[calls-1])
			}
			calls++
			return t
		},
	}
}

func TestQueryTracer_FastQueryIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracer(&buf, 10*time.Millisecond)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	if buf.Len() != 0 {
		t.Errorf("expected no log line, got %s", buf.String())
	}
}

func TestQueryTracer_SlowQuery(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracer(&buf, 250*time.Millisecond)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT *\n\t\tFROM appointments"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 3")})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q", buf.String())
	}
	if entry["sql"] != "SELECT * FROM appointments" {
		t.Errorf("expected compacted sql, got %v", entry["sql"])
	}
	if entry["level"] != "warn" {
		t.Errorf("expected warn level, got %v", entry["level"])
	}
	if entry["rows"] != float64(3) {
		t.Errorf("expected rows 3, got %v", entry["rows"])
	}
}

func TestQueryTracer_FailedQuery(t *testing.T) {
	var buf bytes.Buffer
	tr := newTestTracer(&buf, time.Millisecond)

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "INSERT INTO appointments"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q", buf.String())
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
}
