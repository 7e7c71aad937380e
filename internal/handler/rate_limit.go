package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/storefront/internal/service"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects requests over limit per window for the key
// returned by keyFunc. When the limiter itself fails the request is let through.
func RateLimitMiddleware(limiter service.Limiter, limit int, window time.Duration, keyFunc func(*gin.Context) string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		result, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(result.Remaining, 0)))

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			abortWithError(c, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded, try again in %v", result.RetryAfter.Round(time.Second)))
			return
		}

		c.Next()
	}
}

// RouteIPKey scopes the limit to the route and the client IP
func RouteIPKey(c *gin.Context) string {
	return fmt.Sprintf("%s:%s", c.FullPath(), c.ClientIP())
}
