package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	apierrors "github.com/hrygo/ctparse/server/internal/errors"
	"github.com/hrygo/ctparse/server/internal/observability"
)

// RateLimitConfig configures a RateLimiter.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
	// MaxKeys bounds the tracked clients; the least recently seen is evicted.
	MaxKeys int
	// TTL forgets a client after this long, restoring its full burst.
	TTL time.Duration
}

// RateLimiter provides per-key token-bucket rate limiting over a bounded,
// expiring set of keys.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a rate limiter from cfg.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](cfg.MaxKeys, nil, cfg.TTL),
		limit:    rate.Limit(cfg.PerSecond),
		burst:    cfg.Burst,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.Add(key, limiter)
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func (rl *RateLimiter) keys() int { return rl.limiters.Len() }

// RateLimit rejects requests from a client IP that exceeds its budget.
func RateLimit(rl *RateLimiter, metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.Allow(c.RealIP()) {
				return next(c)
			}
			if metrics != nil {
				metrics.RateLimitedTotal.Inc()
			}
			pe := apierrors.RateLimitExceeded("too many requests")
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"code":    string(pe.Code),
				"message": pe.Message,
			})
		}
	}
}
