package middleware

import (
	"strconv"
	"time"

	"github.com/Kartik1014/Rentit/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware labels requests by route template so ids do not explode
// the label space. Unmatched routes are reported as "unmatched".
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
