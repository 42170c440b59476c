package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/cleanpro-api/internal/metrics"
)

// ContextProcedure is set by the rpc router once a procedure is resolved.
const ContextProcedure = "procedure"

// Metrics records request count and latency. RPC calls are labelled by
// procedure name, everything else by route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		label := c.GetString(ContextProcedure)
		if label == "" {
			label = c.FullPath()
		}
		if label == "" {
			label = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestsTotal.WithLabelValues(c.Request.Method, label, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, label, status).Observe(time.Since(start).Seconds())
	}
}
