package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/edge-sim/pkg/logger"
)

// RequestLogger logs one structured entry per request, at a level chosen by
// the response status
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		entry := logger.WithHTTPContext(log, c.Request.Method, c.Request.URL.Path, c.ClientIP()).WithFields(logrus.Fields{
			"service": "edge-sim",
			"status":  c.Writer.Status(),
			"latency": time.Since(startTime),
		})

		if id, exists := c.Get("evaluation_id"); exists {
			entry = entry.WithField("evaluation_id", id)
		}
		if c.Request.URL.RawQuery != "" {
			entry = entry.WithField("query", c.Request.URL.RawQuery)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Internal Server Error")
		case status >= 400:
			entry.Warn("Client Error")
		default:
			entry.Info("Request completed")
		}
	}
}
