package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"progresslog-api/internal/shared/storage/object"
)

func TestPutOpenRemove(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := New(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	n, err := store.Put(ctx, "files-1-2.pdf", bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(root, "files-1-2.pdf"+partSuffix)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temp file left behind: %v", err)
	}

	rc, err := store.Open(ctx, "files-1-2.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Remove(ctx, "files-1-2.pdf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, "files-1-2.pdf"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if _, err := store.Open(ctx, "files-1-2.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", `a\b`, " padded "} {
		if _, err := store.Put(context.Background(), key, bytes.NewReader(nil)); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestFailedPutLeavesNothing(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Put(context.Background(), "x.bin", io.MultiReader(bytes.NewReader([]byte("abc")), failingReader{})); err == nil {
		t.Fatalf("expected error")
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("expected empty root, found %d entries", len(entries))
	}
}

func TestCancelledPutLeavesNothing(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "x.bin", bytes.NewReader([]byte("abc"))); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Fatalf("expected empty root, found %d entries", len(entries))
	}
}
