package upload

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedTypes is the declared-type allow-list: images, videos, PDF and Office documents.
var allowedTypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"video/mp4":          {},
	"video/mov":          {},
	"video/avi":          {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// sniffAliases maps declared types to the names mimetype reports for the same content.
var sniffAliases = map[string][]string{
	"video/mov": {"video/quicktime"},
	"video/avi": {"video/x-msvideo", "video/avi", "video/msvideo"},
	"application/msword": {
		"application/msword",
		"application/x-ole-storage",
	},
	"application/vnd.ms-excel": {
		"application/vnd.ms-excel",
		"application/x-ole-storage",
	},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/zip",
	},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/zip",
	},
}

// AllowedType reports whether a declared Content-Type is on the allow-list.
// Parameters are ignored and the comparison is case-insensitive.
func AllowedType(declared string) bool {
	_, ok := allowedTypes[mediaType(declared)]
	return ok
}

func mediaType(declared string) string {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mt
}

// contentMatches reports whether the sniffed content is compatible with the
// declared type, walking up the detected type's parents.
func contentMatches(declared string, head []byte) bool {
	want := []string{declared}
	want = append(want, sniffAliases[declared]...)
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		for _, w := range want {
			if m.Is(w) {
				return true
			}
		}
	}
	return false
}
