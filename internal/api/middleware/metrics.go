package middleware

import (
	"ctchen222/pokedex/internal/telemetry"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics records request count, duration and response size per route.
func Metrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			route,
			c.Writer.Status(),
			float64(time.Since(start).Milliseconds()),
			int64(max(c.Writer.Size(), 0)),
		)
	}
}
