// Package listing implements the advanced results pipeline shared by every
// listing endpoint: filter, sort, window, project, expand, paginate.
package listing

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// Result is one page of a listing.
type Result struct {
	Count      int
	Pagination query.Pagination
	Data       []domain.Document
}

// Service lists one resource.
type Service struct {
	source    Source
	maxLimit  int
	expanders []Expander
}

// New creates a listing service. maxLimit <= 0 disables the page size cap.
func New(source Source, maxLimit int, expanders ...Expander) *Service {
	return &Service{source: source, maxLimit: maxLimit, expanders: expanders}
}

// List runs q against the source.
// Pagination neighbours are computed from the size of the whole collection,
// not from the number of documents the filter matches.
func (s *Service) List(ctx context.Context, q query.ResourceQuery) (*Result, error) {
	if q.Page < 1 {
		q.Page = query.DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = query.DefaultLimit
	}
	if s.maxLimit > 0 && q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}
	if err := q.CheckWindow(); err != nil {
		return nil, err //nolint:wrapcheck // domain validation error
	}

	total, err := s.source.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	// Nothing can match past the end of the collection.
	docs := []domain.Document{}
	if q.StartIndex() < total {
		docs, err = s.source.Find(ctx, q.Filter, q.SortOrDefault(), q.StartIndex(), q.Limit)
		if err != nil {
			return nil, fmt.Errorf("find: %w", err)
		}
	}

	for i, d := range docs {
		docs[i] = query.Project(d.StripHidden(), q.Select)
	}

	for _, e := range s.expanders {
		if err := e.Expand(ctx, docs); err != nil {
			return nil, fmt.Errorf("expand: %w", err)
		}
	}

	return &Result{
		Count:      len(docs),
		Pagination: query.Paginate(q.Page, q.Limit, total),
		Data:       docs,
	}, nil
}
