package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/telemetry"
)

// Logging stores logger on the request and emits one structured line per request.
func Logging(logger *telemetry.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.WithLogger(c, logger)
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"bytes_out":   c.Writer.Size(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.Info("request.complete", fields)
	}
}
