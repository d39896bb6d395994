package evidence

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("evidence not found")

// Evidence is one stored file attached to a milestone.
type Evidence struct {
	ID           string
	MilestoneID  string
	FieldName    string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	StorageName  string
	URL          string
	Note         string
	CreatedAt    time.Time
}
