package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ErrNotFound is returned when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store persists binary objects under flat keys.
type Store interface {
	// Put streams r to key. The object becomes visible only once fully written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)
	Remove(ctx context.Context, key string) error
}
