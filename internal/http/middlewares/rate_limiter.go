package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter allows limit requests per window for each caller. Callers are
// told apart by user ID once authenticated, by client IP before that.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			key := limiterKey(c)

			mu.Lock()
			b, ok := buckets[key]
			if !ok || now.Sub(b.start) > window {
				b = &bucket{start: now}
				buckets[key] = b
			}

			if b.count >= limit {
				retryAfter := b.start.Add(window).Sub(now)
				mu.Unlock()

				header := c.Response().Header()
				header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
				header.Set("X-RateLimit-Remaining", "0")
				header.Set(echo.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())+1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Attempts.")
			}

			b.count++
			remaining := limit - b.count
			mu.Unlock()

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			return next(c)
		}
	}
}

func limiterKey(c echo.Context) string {
	if user := CurrentUser(c); user != nil {
		return "user:" + user.ID
	}
	return "ip:" + c.RealIP()
}
