package middleware

import (
	"time"

	"go-ems/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records per-request counters and latency. Uses the route template
// (c.FullPath) rather than the raw URL to keep label cardinality bounded.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
