package evidence

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"progresslog-api/internal/shared/apperr"
	"progresslog-api/internal/shared/metrics"
	"progresslog-api/internal/shared/storage/object"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/upload"
	"progresslog-api/internal/shared/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service records uploaded files against milestones.
type Service struct {
	Repo    Repo
	Files   object.Store
	Metrics *metrics.Metrics
	Logger  *telemetry.Logger
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Record stores one evidence row per accepted file. When the rows cannot be
// written the files are removed so no orphan stays on disk.
func (s *Service) Record(ctx context.Context, milestoneID string, files []upload.File, note string) ([]Evidence, error) {
	if len(files) == 0 {
		return nil, apperr.Validation("Invalid request data", []validation.FieldError{
			{Field: "files", Message: `"files" must contain at least 1 items`},
		})
	}

	base := s.now()
	items := make([]Evidence, 0, len(files))
	for i, f := range files {
		items = append(items, Evidence{
			ID:           uuid.NewString(),
			MilestoneID:  milestoneID,
			FieldName:    f.FieldName,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			SizeBytes:    f.Size,
			StorageName:  f.StorageName,
			URL:          f.URL,
			Note:         note,
			// microsecond steps keep submission order within one batch
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		})
	}

	if err := s.Repo.Create(ctx, items); err != nil {
		for _, f := range files {
			s.removeFile(ctx, f.StorageName)
		}
		return nil, apperr.Internal(0, "Failed to record evidence", err)
	}
	s.Metrics.Evidence("create")
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (Evidence, error) {
	ev, err := s.Repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Evidence{}, apperr.NotFound("Evidence not found")
	}
	if err != nil {
		return Evidence{}, apperr.Internal(0, "Failed to fetch evidence", err)
	}
	return ev, nil
}

// List returns one page of a milestone's evidence. page is 1-based; zero
// values select the first page of 20.
func (s *Service) List(ctx context.Context, milestoneID string, page, limit int) ([]Evidence, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	items, total, err := s.Repo.ListByMilestone(ctx, milestoneID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, apperr.Internal(0, "Failed to list evidence", err)
	}
	return items, total, nil
}

// Delete removes the record and then its file.
func (s *Service) Delete(ctx context.Context, id string) error {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Evidence not found")
		}
		return apperr.Internal(0, "Failed to delete evidence", err)
	}
	s.removeFile(ctx, ev.StorageName)
	s.Metrics.Evidence("delete")
	return nil
}

// Open returns the record and a reader over its stored file.
func (s *Service) Open(ctx context.Context, id string) (Evidence, io.ReadSeekCloser, error) {
	ev, err := s.Get(ctx, id)
	if err != nil {
		return Evidence{}, nil, err
	}
	rc, err := s.Files.Open(ctx, ev.StorageName)
	if errors.Is(err, object.ErrNotFound) {
		return Evidence{}, nil, apperr.NotFound("Evidence file not found")
	}
	if err != nil {
		return Evidence{}, nil, apperr.Internal(0, "Failed to open evidence file", err)
	}
	s.Metrics.Evidence("download")
	return ev, rc, nil
}

func (s *Service) removeFile(ctx context.Context, name string) {
	if err := s.Files.Remove(context.WithoutCancel(ctx), name); err != nil {
		s.Logger.Warn("evidence.file.remove_failed", map[string]any{
			"storage_name": name,
			"error":        err.Error(),
		})
	}
}
