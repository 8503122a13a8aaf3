// Package bootcamp persists bootcamps as RedisJSON documents.
package bootcamp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/domain"
	dombc "github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/geo"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
)

// store is the consumer interface for bootcamps (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONDel(ctx context.Context, key, path string) error
	Del(ctx context.Context, keys ...string) error
	Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.FindQuery) (int, error)
	SearchRadius(ctx context.Context, q *db.RadiusQuery) (*db.SearchResult, error)
}

// record is the persisted shape: the entity plus index-only fields.
type record struct {
	dombc.Bootcamp
	CreatedAtMillis int64  `json:"_createdAt"`
	Geo             string `json:"_geo,omitempty"`
}

// Repo implements usecase/bootcamp.Repository.
type Repo struct {
	store store
	res   *resource.Resource
}

// New creates a bootcamp repository.
func New(s store, res *resource.Resource) *Repo {
	return &Repo{store: s, res: res}
}

// Get returns a bootcamp by id. Malformed ids are reported as not found.
func (r *Repo) Get(ctx context.Context, id string) (*dombc.Bootcamp, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	raw, err := r.store.JSONGet(ctx, r.res.Key(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get bootcamp %s: %w", id, err)
	}

	var rec record
	if err := resource.Decode(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode bootcamp %s: %w", id, err)
	}
	return &rec.Bootcamp, nil
}

// Save writes the whole bootcamp document.
func (r *Repo) Save(ctx context.Context, b *dombc.Bootcamp) error {
	rec := record{Bootcamp: *b, CreatedAtMillis: resource.Millis(b.CreatedAt)}
	if b.Location != nil {
		rec.Geo = resource.GeoValue(b.Location.Longitude(), b.Location.Latitude())
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal bootcamp: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.res.Key(b.ID), "$", data); err != nil {
		return fmt.Errorf("json.set bootcamp %s: %w", b.ID, err)
	}
	return nil
}

// Delete removes a bootcamp document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.res.Key(id)); err != nil {
		return fmt.Errorf("del bootcamp %s: %w", id, err)
	}
	return nil
}

// CountByUser returns how many bootcamps the user has published.
func (r *Repo) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := r.store.Count(ctx, &db.FindQuery{
		IndexName: r.res.IndexName(),
		Schema:    r.res.Schema(),
		Filter:    query.Filter{}.Where("user", query.Eq(userID)),
	})
	if err != nil {
		return 0, fmt.Errorf("count bootcamps of %s: %w", userID, err)
	}
	return n, nil
}

// NameTaken reports whether another bootcamp already uses name.
// Names compare case-insensitively.
func (r *Repo) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	res, err := r.store.Find(ctx, &db.FindQuery{
		IndexName: r.res.IndexName(),
		Schema:    r.res.Schema(),
		Filter:    query.Filter{}.Where("name", query.Eq(name)),
		Limit:     2,
	})
	if err != nil {
		return false, fmt.Errorf("find bootcamp by name: %w", err)
	}
	for _, e := range res.Entries {
		if r.res.IDFromKey(e.Key) != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// SetAverageCost stores the recomputed average cost; nil removes the field.
func (r *Repo) SetAverageCost(ctx context.Context, id string, cost *float64) error {
	key := r.res.Key(id)
	if cost == nil {
		if err := r.store.JSONDel(ctx, key, "$.averageCost"); err != nil {
			return fmt.Errorf("unset average cost of %s: %w", id, err)
		}
		return nil
	}
	val := strconv.FormatFloat(*cost, 'f', -1, 64)
	if err := r.store.JSONSet(ctx, key, "$.averageCost", []byte(val)); err != nil {
		return fmt.Errorf("set average cost of %s: %w", id, err)
	}
	return nil
}

// SetPhoto stores the photo file name.
func (r *Repo) SetPhoto(ctx context.Context, id, photo string) error {
	data, err := json.Marshal(photo)
	if err != nil {
		return fmt.Errorf("marshal photo: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.res.Key(id), "$.photo", data); err != nil {
		return fmt.Errorf("set photo of %s: %w", id, err)
	}
	return nil
}

// WithinRadius returns every bootcamp located within miles of the center.
func (r *Repo) WithinRadius(ctx context.Context, center geo.Point, miles float64) ([]dombc.Bootcamp, error) {
	q := &db.RadiusQuery{
		IndexName:   r.res.IndexName(),
		Field:       "location",
		Longitude:   center.Longitude(),
		Latitude:    center.Latitude(),
		RadiusMiles: miles,
	}
	counted, err := r.store.SearchRadius(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count within radius: %w", err)
	}
	if counted.Total == 0 {
		return []dombc.Bootcamp{}, nil
	}

	q.Limit = counted.Total
	res, err := r.store.SearchRadius(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search within radius: %w", err)
	}

	out := make([]dombc.Bootcamp, 0, len(res.Entries))
	for _, e := range res.Entries {
		var rec record
		if err := resource.Decode([]byte(e.Fields["$"]), &rec); err != nil {
			return nil, fmt.Errorf("decode bootcamp %s: %w", e.Key, err)
		}
		out = append(out, rec.Bootcamp)
	}
	return out, nil
}

// DeleteAll removes every bootcamp and returns how many were removed.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	keys, err := resource.MatchingKeys(ctx, r.store, r.res, nil)
	if err != nil {
		return 0, err
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return 0, fmt.Errorf("del bootcamps: %w", err)
	}
	return len(keys), nil
}
