package middleware

import (
	"net/http"
	"strconv"

	"github.com/Kartik1014/Rentit/internal/metrics"
	"github.com/Kartik1014/Rentit/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware counts requests per client IP under rule. A nil limiter
// or a disabled rule lets everything through.
func RateLimitMiddleware(limiter ratelimit.Limiter, rule ratelimit.Rule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !rule.Enabled {
			c.Next()
			return
		}

		key := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.Error("Rate limiter failed", zap.Error(err), zap.String("key", key), zap.String("rule", rule.Name))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limiter error"})
			return
		}

		if !allowed {
			metrics.RateLimited.WithLabelValues(rule.Name).Inc()
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("rule", rule.Name),
				zap.Int("limit", rule.Limit),
				zap.Duration("window", rule.Window),
			)
			c.Header("Retry-After", strconv.Itoa(int(rule.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
