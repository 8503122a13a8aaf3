package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/devcamper/internal/db"
)

// indexStore is the consumer interface for index bootstrap (ISP).
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// EnsureIndexes creates the FT index of every resource that lacks one.
// Safe to call concurrently from several instances.
func EnsureIndexes(ctx context.Context, s indexStore, resources ...*Resource) error {
	for _, r := range resources {
		exists, err := s.IndexExists(ctx, r.IndexName())
		if err != nil {
			return fmt.Errorf("probe index %s: %w", r.IndexName(), err)
		}
		if exists {
			continue
		}
		if err := s.CreateIndex(ctx, r.Definition()); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", r.IndexName(), err)
		}
	}
	return nil
}
