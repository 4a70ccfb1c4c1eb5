package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"seatshare/internal/utils"
	"seatshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WindowCounter counts hits in a fixed window. pkg/cache.RedisCache is the
// production implementation.
type WindowCounter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit allows limit requests per caller per window. Callers are keyed by
// user id when authenticated, otherwise by client IP. If the counter is
// unreachable the request goes through.
func RateLimit(counter WindowCounter, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		caller := "ip:" + c.ClientIP()
		if id, ok := CurrentUserID(c); ok {
			caller = "user:" + id.Hex()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), caller)

		count, ttl, err := counter.IncrementWindow(c.Request.Context(), key, window)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(int64(limit)-count, 0), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			utils.AbortWithError(c, http.StatusTooManyRequests, utils.ErrRateLimited)
			return
		}

		c.Next()
	}
}
