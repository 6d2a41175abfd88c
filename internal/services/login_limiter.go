package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginAttemptsPrefix namespaces failure counters in Redis.
const loginAttemptsPrefix = "login_attempts:"

// LoginLimiter tracks failed logins per email. AuthService treats a nil
// LoginLimiter as "lockout disabled".
type LoginLimiter interface {
	// IsLocked reports whether email has reached the failure limit.
	IsLocked(ctx context.Context, email string) (bool, error)

	// RecordFailure counts one failed login for email.
	RecordFailure(ctx context.Context, email string) error

	// ResetAttempts clears the counter after a successful login.
	ResetAttempts(ctx context.Context, email string) error
}

// RedisLoginLimiter implements LoginLimiter with a Redis counter whose TTL is
// the lockout window, started by the first failure.
type RedisLoginLimiter struct {
	rdb         redis.UniversalClient
	maxAttempts int
	lockout     time.Duration
}

// NewLoginLimiter builds a Redis-backed limiter. Non-positive maxAttempts or
// lockout fall back to 5 attempts and 15 minutes.
func NewLoginLimiter(rdb redis.UniversalClient, maxAttempts int, lockout time.Duration) *RedisLoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &RedisLoginLimiter{rdb: rdb, maxAttempts: maxAttempts, lockout: lockout}
}

func loginKey(email string) string {
	return loginAttemptsPrefix + strings.ToLower(strings.TrimSpace(email))
}

// IsLocked implements LoginLimiter.
func (l *RedisLoginLimiter) IsLocked(ctx context.Context, email string) (bool, error) {
	n, err := l.rdb.Get(ctx, loginKey(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check login lockout: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// incrWithTTL increments the counter and arms the expiry on the first failure,
// atomically on the server.
var incrWithTTL = redis.NewScript(`
local val = redis.call('INCR', KEYS[1])
if val == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return val
`)

// RecordFailure implements LoginLimiter.
func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	secs := int(l.lockout / time.Second)
	if secs < 1 {
		secs = 1
	}
	if err := incrWithTTL.Run(ctx, l.rdb, []string{loginKey(email)}, secs).Err(); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

// ResetAttempts implements LoginLimiter.
func (l *RedisLoginLimiter) ResetAttempts(ctx context.Context, email string) error {
	if err := l.rdb.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
