// Package lock provides a short-lived distributed mutex on Redis, used to
// serialize bookings for the same doctor across server instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrNotAcquired = errors.New("lock is held by another request")

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Client is the part of *redis.Client the locker needs.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type Releaser func(ctx context.Context) error

type RedisLocker struct {
	client Client
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

func NewRedisLocker(client Client, ttl time.Duration, logger zerolog.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, prefix: "clinic:lock:", logger: logger}
}

// Acquire sets key with a random owner token if it is free. The returned
// Releaser removes it only if the token still matches, so a lock that
// expired and was taken by someone else is left alone.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Releaser, error) {
	full := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, full, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", full, err)
	}
	if !ok {
		l.logger.Info().Str("key", full).Msg("lock busy")
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		n, err := l.client.Eval(ctx, releaseScript, []string{full}, token).Int64()
		if err != nil {
			return fmt.Errorf("release lock %s: %w", full, err)
		}
		if n == 0 {
			l.logger.Warn().Str("key", full).Msg("lock expired before release")
		}
		return nil
	}, nil
}

// Noop is used when no Redis is configured; the database transaction is
// then the only guard.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (Releaser, error) {
	return func(context.Context) error { return nil }, nil
}

// DoctorKey is the lock key for bookings of one doctor in one clinic.
func DoctorKey(clinicID, doctorID uuid.UUID) string {
	return "booking:" + clinicID.String() + ":" + doctorID.String()
}
