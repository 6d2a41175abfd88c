package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc names the bucket a request is charged to.
type KeyFunc func(*gin.Context) string

// KeyByClientIP charges requests to the client address.
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// bucketIdle is how long an unused bucket survives.
const bucketIdle = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	used time.Time
}

// RateLimiter is a process-local token bucket per key. Lockout that must
// hold across replicas lives in services.LoginLimiter.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	key        KeyFunc
	retryAfter string

	mu        sync.Mutex
	buckets   map[string]*bucket
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter refills limit tokens per second up to burst. A burst below
// one is raised to one.
func NewRateLimiter(limit rate.Limit, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:      limit,
		burst:      burst,
		key:        key,
		retryAfter: strconv.Itoa(retrySeconds(limit)),
		buckets:    make(map[string]*bucket),
		idle:       bucketIdle,
		now:        time.Now,
	}
}

// PerMinute converts a per-minute budget into a rate.Limit.
func PerMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60)
}

// retrySeconds is the wait until one token is back, at least a second.
func retrySeconds(limit rate.Limit) int {
	if limit <= 0 || math.IsInf(float64(limit), 1) {
		return 1
	}
	// whole milliseconds first, so 1/(2/60) is 30 and not 31
	s := int(math.Ceil(math.Round(1000/float64(limit)) / 1000))
	if s < 1 {
		return 1
	}
	return s
}

// Allow takes one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle {
		for k, b := range rl.buckets {
			if now.Sub(b.used) > rl.idle {
				delete(rl.buckets, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.used = now
	return b.lim.AllowN(now, 1)
}

// Step rejects the request with a 429 envelope once its bucket is empty.
// Put it first in a route pipeline to guard a single endpoint.
func (rl *RateLimiter) Step() Step {
	return func(c *gin.Context) error {
		if rl.Allow(rl.key(c)) {
			return nil
		}
		c.Header("Retry-After", rl.retryAfter)
		return errRateLimited
	}
}

// Handler is Step as engine-wide middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return Run(rl.Step())
}
