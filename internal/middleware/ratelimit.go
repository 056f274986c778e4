package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"leaseboard/internal/caching"
	"leaseboard/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimit describes a fixed-window limit for a route class.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Route-class limits. Auth endpoints are tight to slow credential
// stuffing; everything else gets hourly windows.
var (
	AuthRateLimit      = RateLimit{Requests: 5, Window: time.Minute}
	AnalyticsRateLimit = RateLimit{Requests: 50, Window: time.Hour}
	UploadRateLimit    = RateLimit{Requests: 20, Window: time.Hour}
	DefaultRateLimit   = RateLimit{Requests: 200, Window: time.Hour}
)

// RateLimitMiddleware enforces a per-client fixed-window counter in redis.
// The client key is the authenticated user id when present, otherwise the
// remote IP. Redis failures fail open: a broken cache must not take the
// API down.
func RateLimitMiddleware(cache caching.CacheService, class string, limit RateLimit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := c.RealIP()
			if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
				clientID = userID.String()
			}
			key := fmt.Sprintf("%s:%s", class, clientID)

			count, err := cache.IncrementRateLimit(c.Request().Context(), key, limit.Window)
			if err != nil {
				log.Printf("WARN: rate limit check failed for %s: %v", key, err)
				return next(c)
			}

			remaining := int64(limit.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			resetIn := limit.Window
			if ttl, err := cache.RateLimitTTL(c.Request().Context(), key); err == nil && ttl > 0 {
				resetIn = ttl
			}
			reset := time.Now().Add(resetIn).Unix()

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > int64(limit.Requests) {
				h.Set("Retry-After", strconv.Itoa(int(resetIn.Seconds())))
				return common.SendError(c, http.StatusTooManyRequests, "rate_limit_exceeded",
					fmt.Sprintf("Rate limit exceeded: %d requests per %s", limit.Requests, limit.Window))
			}

			return next(c)
		}
	}
}
