package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WindowCounter counts hits on key within a fixed window starting at the
// first hit and reports the window's remaining lifetime.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

const rateLimitMessage = "Too many requests, please try again later."

// RateLimit allows limit requests per client IP in each window. Counter
// failures let the request through.
func RateLimit(counter WindowCounter, name string, limit int, window time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := name + ":" + c.ClientIP()
		count, ttl, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			Log(c, log).Warn().Err(err).Str("limiter", name).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		if ttl <= 0 {
			ttl = window
		}
		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(limit))
		h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		h.Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(ttl)))

		if count > int64(limit) {
			h.Set("Retry-After", strconv.Itoa(ceilSeconds(ttl)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
			return
		}

		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
