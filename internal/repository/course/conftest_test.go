package course

import (
	"context"
	"testing"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
)

const (
	testID         = "0f0c1a9e-8a47-4c37-b9ba-5b1e1d7f0a21"
	testBootcampID = "5d713995-b721-4a2e-9f1b-2b8c3a5a7c11"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn   func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn   func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn       func(ctx context.Context, keys ...string) error
	findFn      func(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	countFn     func(ctx context.Context, q *db.FindQuery) (int, error)
	aggregateFn func(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, q *db.FindQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, resource.Courses("t:")), ms
}
