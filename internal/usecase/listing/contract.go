package listing

import (
	"context"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// Source reads one resource collection as generic documents.
type Source interface {
	Find(ctx context.Context, f query.Filter, sort []query.SortKey, offset, limit int) ([]domain.Document, error)
	FindAll(ctx context.Context, f query.Filter) ([]domain.Document, error)
	CountAll(ctx context.Context) (int, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Document, error)
}

// Expander inlines related documents into a page of results.
type Expander interface {
	Expand(ctx context.Context, docs []domain.Document) error
}
