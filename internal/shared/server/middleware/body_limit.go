package middleware

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps non-multipart request bodies at limit bytes. Multipart
// bodies are bounded per file by the upload intake instead.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody || isMultipart(c) {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			_ = c.Error(&http.MaxBytesError{Limit: limit})
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func isMultipart(c *gin.Context) bool {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
