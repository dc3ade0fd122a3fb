package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies by route template, so that
// /expenses/:id is one series regardless of the ID.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
