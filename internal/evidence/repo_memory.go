package evidence

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Evidence
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Evidence),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, items []Evidence) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range items {
		r.data[ev.ID] = ev
	}
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Evidence, error) {
	if err := ctx.Err(); err != nil {
		return Evidence{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.data[id]
	if !ok {
		return Evidence{}, ErrNotFound
	}
	return ev, nil
}

func (r *MemoryRepo) ListByMilestone(ctx context.Context, milestoneID string, limit, offset int) ([]Evidence, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	items := make([]Evidence, 0)
	for _, ev := range r.data {
		if ev.MilestoneID == milestoneID {
			items = append(items, ev)
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	total := len(items)
	if offset >= total {
		return []Evidence{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], total, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}
