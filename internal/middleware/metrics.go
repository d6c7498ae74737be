package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/pkg/metrics"
)

// unmatchedRoute labels requests that hit no registered route, so scanners
// probing random paths cannot grow the latency histogram without bound.
const unmatchedRoute = "unmatched"

// Metrics records request latency per route template. Paths listed in skip
// (typically the metrics endpoint itself) are not observed.
func Metrics(skip ...string) gin.HandlerFunc {
	ignored := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		ignored[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := ignored[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.APILatency.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
