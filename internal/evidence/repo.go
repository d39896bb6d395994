package evidence

import "context"

// Repo defines persistence operations for evidence.
type Repo interface {
	// Create stores all items or none of them.
	Create(ctx context.Context, items []Evidence) error
	Get(ctx context.Context, id string) (Evidence, error)
	// ListByMilestone returns one page in upload order plus the total count.
	ListByMilestone(ctx context.Context, milestoneID string, limit, offset int) ([]Evidence, int, error)
	Delete(ctx context.Context, id string) error
}
