package documents

import "context"

// Repo defines persistence operations for document metadata.
type Repo interface {
	List(ctx context.Context) ([]Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	Create(ctx context.Context, doc Document) error
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
}
