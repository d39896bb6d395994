package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/server/respond"
)

// Errors turns errors attached with c.Error into an error envelope when the
// handler chain did not answer itself, either by writing or by setting a
// status other than 200.
func Errors(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || answered(c) {
			return
		}
		respond.Fail(c, translate(c.Errors.Last().Err), verbose)
	}
}

func answered(c *gin.Context) bool {
	return c.Writer.Written() || c.Writer.Status() != http.StatusOK
}

func translate(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Internal(http.StatusRequestEntityTooLarge, "request entity too large", err)
	}
	return err
}
