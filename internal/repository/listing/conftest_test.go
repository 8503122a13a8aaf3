package listing

import (
	"context"
	"testing"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonMGetFn    func(ctx context.Context, keys []string, path string) ([][]byte, error)
	findFn        func(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error)
	countFn       func(ctx context.Context, q *db.FindQuery) (int, error)
	searchCountFn func(ctx context.Context, index, query string) (int, error)
}

func (m *mockStore) JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if m.jsonMGetFn != nil {
		return m.jsonMGetFn(ctx, keys, path)
	}
	return make([][]byte, len(keys)), nil
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

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, resource.Bootcamps("t:")), ms
}
