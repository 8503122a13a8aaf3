// Package listing reads any resource collection as generic documents for
// the advanced results pipeline and relation expansion.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
)

// store is the consumer interface for listings (ISP).
type store interface {
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.FindQuery) (int, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// byCreation keeps unbounded scans in insertion order.
var byCreation = []query.SortKey{{Field: "createdAt"}}

// Repo implements usecase/listing.Source for one resource.
type Repo struct {
	store store
	res   *resource.Resource
}

// New creates a listing repository over res.
func New(s store, res *resource.Resource) *Repo {
	return &Repo{store: s, res: res}
}

// Find returns one window of documents matching the filter.
func (r *Repo) Find(
	ctx context.Context, f query.Filter, sort []query.SortKey, offset, limit int,
) ([]domain.Document, error) {
	res, err := r.store.Find(ctx, &db.FindQuery{
		IndexName: r.res.IndexName(),
		Schema:    r.res.Schema(),
		Filter:    f,
		Sort:      sort,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.res.Name(), translate(err))
	}
	return r.decodeEntries(res.Entries)
}

// FindAll returns every document matching the filter, oldest first.
func (r *Repo) FindAll(ctx context.Context, f query.Filter) ([]domain.Document, error) {
	q := &db.FindQuery{IndexName: r.res.IndexName(), Schema: r.res.Schema(), Filter: f}
	n, err := r.store.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.res.Name(), translate(err))
	}
	if n == 0 {
		return []domain.Document{}, nil
	}
	return r.Find(ctx, f, byCreation, 0, n)
}

// CountAll returns the size of the whole collection, ignoring any filter.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.res.IndexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.res.Name(), err)
	}
	return n, nil
}

// GetMany fetches documents by id. Ids that do not resolve are skipped.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}
	raws, err := r.store.JSONMGet(ctx, r.res.Keys(ids), "$")
	if err != nil {
		return nil, fmt.Errorf("mget %s: %w", r.res.Name(), err)
	}

	docs := make([]domain.Document, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		doc, err := decode(raw, ids[i])
		if err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", r.res.Name(), ids[i], err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *Repo) decodeEntries(entries []db.SearchEntry) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(entries))
	for _, e := range entries {
		id := r.res.IDFromKey(e.Key)
		doc, err := decode([]byte(e.Fields["$"]), id)
		if err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", r.res.Name(), id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decode(raw []byte, id string) (domain.Document, error) {
	var doc domain.Document
	if err := resource.Decode(raw, &doc); err != nil {
		return nil, err
	}
	if doc.ID() == "" {
		doc["id"] = id
	}
	return doc, nil
}

// translate turns schema mismatches into client-facing validation errors.
func translate(err error) error {
	if errors.Is(err, db.ErrInvalidQuery) {
		msg := strings.TrimPrefix(err.Error(), db.ErrInvalidQuery.Error()+": ")
		return domain.NewError(domain.ErrValidation, msg)
	}
	return err
}
