package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type PoolOption func(*pgxpool.Config)

// WithSlowQueryLog logs statements that take longer than threshold, and
// every failed statement, at warn level.
func WithSlowQueryLog(logger zerolog.Logger, threshold time.Duration) PoolOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = &queryTracer{logger: logger, threshold: threshold, now: time.Now}
	}
}

// NewPool opens a pgx pool. Sessions run in UTC so timestamptz values
// round-trip without an implicit server zone.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32, opts ...PoolOption) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.ConnConfig.RuntimeParams["application_name"] = "clinic-server"
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	for _, o := range opts {
		o(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// queryTracer implements pgx.QueryTracer.
type queryTracer struct {
	logger    zerolog.Logger
	threshold time.Duration
	now       func() time.Time
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(start.at)
	if data.Err == nil && elapsed < t.threshold {
		return
	}
	evt := t.logger.Warn().Dur("elapsed", elapsed).Str("sql", compactSQL(start.sql))
	if data.Err != nil {
		evt = evt.Err(data.Err)
	} else {
		evt = evt.Int64("rows", data.CommandTag.RowsAffected())
	}
	evt.Msg("slow or failed query")
}

func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
