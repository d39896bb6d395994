package evidence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, milestone_id, field_name, original_name, mime_type, size_bytes, storage_name, url, note, created_at`

// Create inserts all items in one transaction.
func (r *PGRepo) Create(ctx context.Context, items []Evidence) error {
	const query = `
INSERT INTO evidence (
    id,
    milestone_id,
    field_name,
    original_name,
    mime_type,
    size_bytes,
    storage_name,
    url,
    note,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, ev := range items {
		var note sql.NullString
		if ev.Note != "" {
			note = sql.NullString{String: ev.Note, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query,
			ev.ID,
			ev.MilestoneID,
			ev.FieldName,
			ev.OriginalName,
			ev.MimeType,
			ev.SizeBytes,
			ev.StorageName,
			ev.URL,
			note,
			ev.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert evidence: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PGRepo) Get(ctx context.Context, id string) (Evidence, error) {
	query := `SELECT ` + selectColumns + ` FROM evidence WHERE id = $1`
	ev, err := scanEvidence(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Evidence{}, ErrNotFound
	}
	return ev, err
}

// ListByMilestone lists evidence oldest-first.
func (r *PGRepo) ListByMilestone(ctx context.Context, milestoneID string, limit, offset int) ([]Evidence, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM evidence WHERE milestone_id = $1`, milestoneID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count evidence: %w", err)
	}

	query := `SELECT ` + selectColumns + `
FROM evidence
WHERE milestone_id = $1
ORDER BY created_at ASC, id ASC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, milestoneID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	items := make([]Evidence, 0)
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM evidence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvidence(row scanner) (Evidence, error) {
	var ev Evidence
	var note sql.NullString
	err := row.Scan(
		&ev.ID,
		&ev.MilestoneID,
		&ev.FieldName,
		&ev.OriginalName,
		&ev.MimeType,
		&ev.SizeBytes,
		&ev.StorageName,
		&ev.URL,
		&note,
		&ev.CreatedAt,
	)
	if err != nil {
		return Evidence{}, err
	}
	if note.Valid {
		ev.Note = note.String
	}
	return ev, nil
}
