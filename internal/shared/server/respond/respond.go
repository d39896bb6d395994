package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/telemetry"
)

const internalMessage = "Internal server error"

// JSON writes a success envelope with the given status.
func JSON(c *gin.Context, status int, data any, message string) {
	env := NewSuccess(data, message, status)
	c.JSON(env.StatusCode, env)
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any, message string) {
	JSON(c, http.StatusOK, data, message)
}

// Page writes a 200 paginated envelope.
func Page(c *gin.Context, items any, pagination any, message string) {
	c.JSON(http.StatusOK, NewPaginated(items, pagination, message))
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	log := telemetry.FromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("http.error", fields)
	} else {
		log.Warn("http.error", fields)
	}

	env := NewError(code, message, details, status)
	c.AbortWithStatusJSON(env.StatusCode, env)
}

// Fail writes err as an error envelope. Errors outside the apperr taxonomy
// become INTERNAL_ERROR; their text is only shown, as message and details,
// when verbose is set.
func Fail(c *gin.Context, err error, verbose bool) {
	if e, ok := apperr.As(err); ok {
		details := e.Details
		if details == nil && verbose && e.Cause != nil && e.Kind == apperr.KindInternal {
			details = e.Cause.Error()
		}
		Error(c, e.HTTPStatus(), string(e.Kind), e.Message, details)
		return
	}
	if verbose {
		Error(c, http.StatusInternalServerError, string(apperr.KindInternal), err.Error(), err.Error())
		return
	}
	Error(c, http.StatusInternalServerError, string(apperr.KindInternal), internalMessage, nil)
}
