package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"progresslog-api/internal/shared/storage/object"
	"progresslog-api/internal/shared/util"
)

const partSuffix = ".part"

// Store implements object.Store on a single local directory.
type Store struct {
	root string
}

var _ object.Store = (*Store)(nil)

// New creates root (with parents) and returns a store rooted there.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("local store: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir upload root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// Path returns the on-disk location for key.
func (s *Store) Path(key string) (string, error) {
	clean, err := util.SanitizeFileName(key)
	if err != nil || clean != key || filepath.Base(key) != key {
		return "", object.ErrInvalidKey
	}
	return filepath.Join(s.root, key), nil
}

// Put writes r to <key>.part and renames it into place. A failed or
// cancelled write leaves nothing behind.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	full, err := s.Path(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmp := full + partSuffix
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, contextReader{ctx: ctx, r: r})
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename file: %w", err)
	}
	return written, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, object.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	full, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
