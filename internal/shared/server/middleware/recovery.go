package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/server/respond"
	"progresslog-api/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
// In verbose mode the panic value and stack are returned to the client.
func Recovery(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stack := string(debug.Stack())
			telemetry.FromContext(c).Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      stack,
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			message := "Internal server error"
			var details any
			if verbose {
				message = fmt.Sprint(rec)
				details = stack
			}
			respond.Error(c, http.StatusInternalServerError, string(apperr.KindInternal), message, details)
		}()
		c.Next()
	}
}
