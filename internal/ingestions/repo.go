package ingestions

import "context"

// Repo defines persistence operations for ingestion jobs.
type Repo interface {
	List(ctx context.Context) ([]Job, error)
	GetByID(ctx context.Context, id string) (Job, error)
	Create(ctx context.Context, job Job) error
	Update(ctx context.Context, id string, patch Patch) (Job, error)
	Delete(ctx context.Context, id string) error
}
