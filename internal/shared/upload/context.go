package upload

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	fileKey   = "upload.file"
	filesKey  = "upload.files"
	fieldsKey = "upload.fields"
)

// FileFromContext returns the file accepted by Single, if any.
func FileFromContext(c *gin.Context) (File, bool) {
	v, ok := c.Get(fileKey)
	if !ok {
		return File{}, false
	}
	f, ok := v.(File)
	return f, ok
}

// FilesFromContext returns the files accepted by Multiple in submission order.
func FilesFromContext(c *gin.Context) []File {
	v, ok := c.Get(filesKey)
	if !ok {
		return nil
	}
	files, _ := v.([]File)
	return files
}

// FieldsFromContext returns the text fields of the multipart form.
func FieldsFromContext(c *gin.Context) url.Values {
	v, ok := c.Get(fieldsKey)
	if !ok {
		return nil
	}
	fields, _ := v.(url.Values)
	return fields
}
