package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	apierrors "github.com/feral-file/ff-project-intel/internal/api/shared/errors"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

const RATE_LIMIT_KEY_PREFIX = "ff-project-intel:ratelimit:"

// RateLimit returns a gin middleware limiting each client to requestsPerMinute.
// Clients are told apart by auth subject, falling back to the client IP.
// Limiter failures let the request through.
func RateLimit(limiter adapter.RedisRateLimiter, requestsPerMinute int) gin.HandlerFunc {
	limit := redis_rate.PerMinute(requestsPerMinute)

	return func(c *gin.Context) {
		key := RATE_LIMIT_KEY_PREFIX + clientKey(c)

		result, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if result.Allowed == 0 {
			seconds := int(result.RetryAfter.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			apiErr := apierrors.NewRateLimitedError("Too many requests", fmt.Sprintf("retry after %ds", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiErr)
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if subject, ok := c.Get(AUTH_SUBJECT_KEY); ok {
		if s, ok := subject.(string); ok && s != "" {
			return "subject:" + s
		}
	}
	return "ip:" + c.ClientIP()
}
