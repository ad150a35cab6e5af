package middleware

import (
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blastview/blastview/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count per route
// pattern. Routes listed in skip are not observed; the event socket would
// otherwise report its whole connection lifetime as one request.
func PrometheusMiddleware(skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if slices.Contains(skip, route) {
			c.Next()

			return
		}

		start := time.Now()
		c.Next()

		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
