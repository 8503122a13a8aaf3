package listing

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// memSource is an in-memory Source supporting eq/in filters and a sort on
// string fields. It records the window of the last Find.
type memSource struct {
	docs []domain.Document

	lastFilter query.Filter
	lastSort   []query.SortKey
	lastOffset int
	lastLimit  int
	findCalls  int

	countErr error
	findErr  error
}

func (m *memSource) Find(
	_ context.Context, f query.Filter, keys []query.SortKey, offset, limit int,
) ([]domain.Document, error) {
	m.findCalls++
	m.lastFilter, m.lastSort, m.lastOffset, m.lastLimit = f, keys, offset, limit
	if m.findErr != nil {
		return nil, m.findErr
	}
	matched := m.match(f)
	if len(keys) > 0 {
		k := keys[0]
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := fmt.Sprint(matched[i][k.Field]), fmt.Sprint(matched[j][k.Field])
			if k.Desc {
				return a > b
			}
			return a < b
		})
	}
	if offset >= len(matched) {
		return []domain.Document{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *memSource) FindAll(_ context.Context, f query.Filter) ([]domain.Document, error) {
	m.lastFilter = f
	return m.match(f), nil
}

func (m *memSource) CountAll(context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.docs), nil
}

func (m *memSource) GetMany(_ context.Context, ids []string) ([]domain.Document, error) {
	var out []domain.Document
	for _, id := range ids {
		for _, d := range m.docs {
			if d.ID() == id {
				out = append(out, clone(d))
			}
		}
	}
	return out, nil
}

func (m *memSource) match(f query.Filter) []domain.Document {
	out := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		if matches(d, f) {
			out = append(out, clone(d))
		}
	}
	return out
}

func matches(d domain.Document, f query.Filter) bool {
	for _, c := range f {
		if !fieldMatches(d[c.Field], c.Expr.Values()) {
			return false
		}
	}
	return true
}

func fieldMatches(v any, want []string) bool {
	switch tv := v.(type) {
	case []any:
		for _, item := range tv {
			if fieldMatches(item, want) {
				return true
			}
		}
		return false
	default:
		for _, w := range want {
			if fmt.Sprint(tv) == w {
				return true
			}
		}
		return false
	}
}

func clone(d domain.Document) domain.Document {
	out := make(domain.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func bootcampDoc(id, name string, careers ...string) domain.Document {
	cs := make([]any, len(careers))
	for i, c := range careers {
		cs[i] = c
	}
	return domain.Document{
		"id":          id,
		"name":        name,
		"careers":     cs,
		"description": name + " description",
		"_createdAt":  1700000000000,
	}
}
