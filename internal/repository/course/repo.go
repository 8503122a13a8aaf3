// Package course persists courses as RedisJSON documents.
package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/domain"
	domcourse "github.com/kailas-cloud/devcamper/internal/domain/course"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
)

// store is the consumer interface for courses (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
	Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.FindQuery) (int, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
}

type record struct {
	domcourse.Course
	CreatedAtMillis int64 `json:"_createdAt"`
}

// Repo implements usecase/course.Repository.
type Repo struct {
	store store
	res   *resource.Resource
}

// New creates a course repository.
func New(s store, res *resource.Resource) *Repo {
	return &Repo{store: s, res: res}
}

// Get returns a course by id. Malformed ids are reported as not found.
func (r *Repo) Get(ctx context.Context, id string) (*domcourse.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	raw, err := r.store.JSONGet(ctx, r.res.Key(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get course %s: %w", id, err)
	}

	var rec record
	if err := resource.Decode(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", id, err)
	}
	return &rec.Course, nil
}

// Save writes the whole course document.
func (r *Repo) Save(ctx context.Context, c *domcourse.Course) error {
	data, err := json.Marshal(record{Course: *c, CreatedAtMillis: resource.Millis(c.CreatedAt)})
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.res.Key(c.ID), "$", data); err != nil {
		return fmt.Errorf("json.set course %s: %w", c.ID, err)
	}
	return nil
}

// Delete removes a course document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.res.Key(id)); err != nil {
		return fmt.Errorf("del course %s: %w", id, err)
	}
	return nil
}

// ListByBootcamp returns every course of a bootcamp, oldest first.
func (r *Repo) ListByBootcamp(ctx context.Context, bootcampID string) ([]domcourse.Course, error) {
	q := &db.FindQuery{
		IndexName: r.res.IndexName(),
		Schema:    r.res.Schema(),
		Filter:    byBootcamp(bootcampID),
		Sort:      []query.SortKey{{Field: "createdAt"}},
	}
	n, err := r.store.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count courses of %s: %w", bootcampID, err)
	}
	if n == 0 {
		return []domcourse.Course{}, nil
	}

	q.Limit = n
	res, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find courses of %s: %w", bootcampID, err)
	}
	out := make([]domcourse.Course, 0, len(res.Entries))
	for _, e := range res.Entries {
		var rec record
		if err := resource.Decode([]byte(e.Fields["$"]), &rec); err != nil {
			return nil, fmt.Errorf("decode course %s: %w", e.Key, err)
		}
		out = append(out, rec.Course)
	}
	return out, nil
}

// DeleteByBootcamp removes every course referencing the bootcamp and
// returns how many were removed.
func (r *Repo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	keys, err := resource.MatchingKeys(ctx, r.store, r.res, byBootcamp(bootcampID))
	if err != nil {
		return 0, err
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("del courses of %s: %w", bootcampID, err)
	}
	return len(keys), nil
}

// DeleteAll removes every course and returns how many were removed.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := resource.MatchingKeys(ctx, r.store, r.res, nil)
	if err != nil {
		return 0, err
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("del courses: %w", err)
	}
	return len(keys), nil
}

// TuitionStats returns the mean tuition and the number of courses of a bootcamp.
// A bootcamp without courses yields (0, 0, nil).
func (r *Repo) TuitionStats(ctx context.Context, bootcampID string) (float64, int, error) {
	rows, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: r.res.IndexName(),
		Schema:    r.res.Schema(),
		Filter:    byBootcamp(bootcampID),
		GroupBy:   "bootcamp",
		Reducers: []db.Reducer{
			{Func: "AVG", Field: "tuition", As: "averageCost"},
			{Func: "COUNT", As: "count"},
		},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate tuition of %s: %w", bootcampID, err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}

	n, err := strconv.Atoi(rows[0]["count"])
	if err != nil {
		return 0, 0, fmt.Errorf("parse course count %q: %w", rows[0]["count"], err)
	}
	avg, err := strconv.ParseFloat(rows[0]["averageCost"], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse average tuition %q: %w", rows[0]["averageCost"], err)
	}
	return avg, n, nil
}

func byBootcamp(id string) query.Filter {
	return query.Filter{}.Where("bootcamp", query.Eq(id))
}
