package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// countingCache implements the rate-limit slice of caching.CacheService.
type countingCache struct {
	mu       sync.Mutex
	counters map[string]int64
	fail     bool
}

func newCountingCache() *countingCache {
	return &countingCache{counters: make(map[string]int64)}
}

func (f *countingCache) IncrementRateLimit(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.fail {
		return 0, errors.New("redis down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *countingCache) RateLimitTTL(_ context.Context, _ string) (time.Duration, error) {
	return 30 * time.Second, nil
}

func (f *countingCache) GetUserAnalytics(_ context.Context, _ uuid.UUID, _ string) (map[string]interface{}, error) {
	return nil, nil
}

func (f *countingCache) SetUserAnalytics(_ context.Context, _ uuid.UUID, _ string, _ map[string]interface{}, _ time.Duration) error {
	return nil
}

func (f *countingCache) InvalidateUserAnalytics(_ context.Context, _ uuid.UUID) error { return nil }
func (f *countingCache) SetString(_ context.Context, _, _ string, _ time.Duration) error {
	return nil
}
func (f *countingCache) GetString(_ context.Context, _ string) (string, error) { return "", nil }
func (f *countingCache) Delete(_ context.Context, _ string) error              { return nil }
func (f *countingCache) Ping(_ context.Context) error                          { return nil }

func performRequest(mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	cache := newCountingCache()
	mw := RateLimitMiddleware(cache, "auth", RateLimit{Requests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		rec := performRequest(mw)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	cache := newCountingCache()
	mw := RateLimitMiddleware(cache, "auth", RateLimit{Requests: 2, Window: time.Minute})

	performRequest(mw)
	performRequest(mw)
	rec := performRequest(mw)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	cache := newCountingCache()
	mw := RateLimitMiddleware(cache, "default", RateLimit{Requests: 10, Window: time.Hour})

	rec := performRequest(mw)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_RemainingNeverNegative(t *testing.T) {
	cache := newCountingCache()
	mw := RateLimitMiddleware(cache, "auth", RateLimit{Requests: 1, Window: time.Minute})

	performRequest(mw)
	performRequest(mw)
	rec := performRequest(mw)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpenOnCacheError(t *testing.T) {
	cache := newCountingCache()
	cache.fail = true
	mw := RateLimitMiddleware(cache, "auth", RateLimit{Requests: 1, Window: time.Minute})

	for i := 0; i < 5; i++ {
		rec := performRequest(mw)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_SeparateClassesCountSeparately(t *testing.T) {
	cache := newCountingCache()
	authMW := RateLimitMiddleware(cache, "auth", RateLimit{Requests: 1, Window: time.Minute})
	uploadMW := RateLimitMiddleware(cache, "uploads", RateLimit{Requests: 1, Window: time.Hour})

	assert.Equal(t, http.StatusOK, performRequest(authMW).Code)
	// Auth is exhausted, uploads is not.
	assert.Equal(t, http.StatusTooManyRequests, performRequest(authMW).Code)
	assert.Equal(t, http.StatusOK, performRequest(uploadMW).Code)
}
