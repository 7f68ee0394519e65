package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the JSON view of pgxpool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Check is a named dependency probe, e.g. the booking lock's Redis.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler pings Postgres and every extra check. Any failure turns the
// response into 503 with the failing dependency's error.
func HealthHandler(pool *pgxpool.Pool, checks ...Check) echo.HandlerFunc {
	all := append([]Check{{Name: "postgres", Ping: pool.Ping}}, checks...)
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		body := map[string]interface{}{"pool": GetPoolStats(pool)}
		return c.JSON(runChecks(ctx, all, body), body)
	}
}

func runChecks(ctx context.Context, checks []Check, body map[string]interface{}) int {
	status := http.StatusOK
	deps := make(map[string]string, len(checks))
	for _, chk := range checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[chk.Name] = "ok"
	}
	body["checks"] = deps
	if status == http.StatusOK {
		body["status"] = "healthy"
	} else {
		body["status"] = "unhealthy"
	}
	return status
}
