package evidence

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/metrics"
	"progresslog-api/internal/shared/storage/object/local"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/upload"
)

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(context.Context, []Evidence) error {
	return errors.New("insert failed")
}

func newService(t *testing.T, repo Repo) (*Service, *local.Store) {
	t.Helper()
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	return &Service{
		Repo:    repo,
		Files:   store,
		Metrics: metrics.New(),
		Logger:  telemetry.Nop(),
		Now:     func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}, store
}

func storeFile(t *testing.T, store *local.Store, name, content string) upload.File {
	t.Helper()
	n, err := store.Put(context.Background(), name, strings.NewReader(content))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	return upload.File{FieldName: "files", OriginalName: name, MimeType: "application/pdf", Size: n, StorageName: name, URL: "/uploads/" + name}
}

func TestRecordKeepsSubmissionOrder(t *testing.T) {
	svc, store := newService(t, NewMemoryRepo())
	files := []upload.File{
		storeFile(t, store, "files-1-1.pdf", "one"),
		storeFile(t, store, "files-2-2.pdf", "two"),
		storeFile(t, store, "files-3-3.pdf", "three"),
	}

	items, err := svc.Record(context.Background(), "ms-1", files, "weekly photos")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 records, got %d", len(items))
	}

	listed, total, err := svc.List(context.Background(), "ms-1", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	for i, ev := range listed {
		if ev.StorageName != files[i].StorageName || ev.Note != "weekly photos" {
			t.Fatalf("record %d out of order: %+v", i, ev)
		}
	}
}

func TestRecordRequiresFiles(t *testing.T) {
	svc, _ := newService(t, NewMemoryRepo())
	_, err := svc.Record(context.Background(), "ms-1", nil, "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordRemovesFilesWhenRepoFails(t *testing.T) {
	svc, store := newService(t, failingRepo{NewMemoryRepo()})
	files := []upload.File{storeFile(t, store, "files-1-1.pdf", "one")}

	_, err := svc.Record(context.Background(), "ms-1", files, "")
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "files-1-1.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected stored file to be removed, stat err=%v", err)
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc, _ := newService(t, NewMemoryRepo())
	_, err := svc.Get(context.Background(), "nope")
	e, ok := apperr.As(err)
	if !ok || e.Kind != apperr.KindNotFound || e.Message != "Evidence not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOpenAndDelete(t *testing.T) {
	svc, store := newService(t, NewMemoryRepo())
	items, err := svc.Record(context.Background(), "ms-1", []upload.File{storeFile(t, store, "files-1-1.pdf", "%PDF")}, "")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	id := items[0].ID

	ev, rc, err := svc.Open(context.Background(), id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "%PDF" || ev.ID != id {
		t.Fatalf("unexpected content %q for %+v", data, ev)
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "files-1-1.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := svc.Delete(context.Background(), id); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestOpenMissingFileIsNotFound(t *testing.T) {
	svc, store := newService(t, NewMemoryRepo())
	items, err := svc.Record(context.Background(), "ms-1", []upload.File{storeFile(t, store, "files-1-1.pdf", "x")}, "")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Remove(context.Background(), "files-1-1.pdf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := svc.Open(context.Background(), items[0].ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListClampsPaging(t *testing.T) {
	svc, _ := newService(t, NewMemoryRepo())
	items, total, err := svc.List(context.Background(), "ms-1", 0, 1000)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 || total != 0 {
		t.Fatalf("expected empty list, got %d/%d", len(items), total)
	}
}
