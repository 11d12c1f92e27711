package middleware

import (
	"strconv"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Prometheus records the request counter and latency histogram per route.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}
