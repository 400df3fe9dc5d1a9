package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ctparse/server/internal/observability"
)

func testLimiter(maxKeys int, ttl time.Duration) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{PerSecond: 1, Burst: 2, MaxKeys: maxKeys, TTL: ttl})
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := testLimiter(10, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "keys have separate buckets")
	assert.Equal(t, 2, rl.keys())
}

func TestRateLimiter_EvictsLeastRecentKey(t *testing.T) {
	rl := testLimiter(2, time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.True(t, rl.Allow("c"), "evicts a")
	assert.Equal(t, 2, rl.keys())

	assert.True(t, rl.Allow("a"), "an evicted client starts with a fresh bucket")
	assert.Equal(t, 2, rl.keys())
}

func TestRateLimiter_ForgetsIdleKeys(t *testing.T) {
	rl := testLimiter(10, 20*time.Millisecond)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	require.Eventually(t, func() bool { return rl.keys() == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimit_Middleware(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RateLimit(NewRateLimiter(RateLimitConfig{PerSecond: 1, Burst: 1, MaxKeys: 10, TTL: time.Minute}), metrics))

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, serve())
	assert.Equal(t, http.StatusTooManyRequests, serve())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RateLimitedTotal))
}

func TestRequestContext_Middleware(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	e := echo.New()

	var seen *observability.RequestContext
	e.GET("/ping", func(c echo.Context) error {
		reqCtx, ok := observability.FromContext(c.Request().Context())
		require.True(t, ok)
		seen = reqCtx
		return c.String(http.StatusOK, "pong")
	}, RequestContext(slog.Default(), metrics))
	e.GET("/fail", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	}, RequestContext(slog.Default(), metrics))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "/ping", seen.Route)
	assert.Equal(t, seen.RequestID, rec.Header().Get(HeaderRequestID))
	assert.Len(t, seen.RequestID, 36)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "client-chosen")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "client-chosen", rec.Header().Get(HeaderRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/ping", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/fail", http.MethodGet, "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.InFlight))
}
