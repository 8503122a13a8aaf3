package resource

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// finder is the consumer interface for key scans (ISP).
type finder interface {
	Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.FindQuery) (int, error)
}

// MatchingKeys returns the storage keys of every document of r matching f.
func MatchingKeys(ctx context.Context, s finder, r *Resource, f query.Filter) ([]string, error) {
	q := &db.FindQuery{IndexName: r.IndexName(), Schema: r.Schema(), Filter: f}
	n, err := s.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.Name(), err)
	}
	if n == 0 {
		return nil, nil
	}

	q.Limit = n
	res, err := s.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.Name(), err)
	}
	keys := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}
