package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/server/respond"
)

const (
	bodyMessage  = "Invalid request data"
	queryMessage = "Invalid query parameters"
)

// MaxBodySize caps how much of a request body Body will buffer, independent
// of any limit applied earlier in the chain.
var MaxBodySize int64 = 10 << 20

// Body rejects requests whose body does not satisfy schema. The raw body is
// cached so handlers can bind it again with c.ShouldBindBodyWith.
func Body(schema Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := bodyPayload(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				_ = c.Error(err)
				c.Abort()
				return
			}
			respond.Error(c, http.StatusBadRequest, string(apperr.KindValidation), bodyMessage,
				[]FieldError{{Field: "body", Message: err.Error()}})
			return
		}
		if errs := schema.Validate(payload); len(errs) > 0 {
			respond.Error(c, http.StatusBadRequest, string(apperr.KindValidation), bodyMessage, errs)
			return
		}
		c.Next()
	}
}

// Query rejects requests whose query string does not satisfy schema.
func Query(schema Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		if errs := schema.Validate(queryPayload(c)); len(errs) > 0 {
			respond.Error(c, http.StatusBadRequest, string(apperr.KindValidation), queryMessage, errs)
			return
		}
		c.Next()
	}
}

// Identifier rejects requests whose path parameter is not a canonical UUID.
// An empty param name means "id".
func Identifier(param string) gin.HandlerFunc {
	if param == "" {
		param = "id"
	}
	return func(c *gin.Context) {
		if !IsUUID(c.Param(param)) {
			respond.Error(c, http.StatusBadRequest, string(apperr.KindValidation),
				fmt.Sprintf("Invalid %s: must be a valid UUID", param), nil)
			return
		}
		c.Next()
	}
}

// IsUUID reports whether s is the hyphenated 8-4-4-4-12 form with version 1-5
// and the RFC 4122 variant.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return false
	}
	return u.Variant() == uuid.RFC4122
}

// bodyPayload decodes JSON and urlencoded bodies. Any other media type is
// validated as an empty object and its body is left unread.
func bodyPayload(c *gin.Context) (any, error) {
	mt := mediaType(c)
	if mt != "application/json" && mt != "application/x-www-form-urlencoded" {
		return map[string]any{}, nil
	}
	body, err := cachedBody(c)
	if err != nil {
		return nil, err
	}
	if mt == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("malformed form body: %w", err)
		}
		return flatten(values), nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var payload any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return payload, nil
}

func cachedBody(c *gin.Context) ([]byte, error) {
	if cached, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := cached.([]byte); ok {
			return body, nil
		}
	}
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize))
	if err != nil {
		return nil, err
	}
	c.Set(gin.BodyBytesKey, body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func mediaType(c *gin.Context) string {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func queryPayload(c *gin.Context) map[string]any {
	return flatten(c.Request.URL.Query())
}

func flatten(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			out[key] = vals[0]
			continue
		}
		items := make([]any, len(vals))
		for i, v := range vals {
			items[i] = v
		}
		out[key] = items
	}
	return out
}
