package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/devcamper/internal/db"
)

// JSONSet stores a JSON value at the given key and path.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// JSONGet retrieves a JSON document by key and optional paths.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	args := make([]string, len(paths))
	copy(args, paths)

	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// JSONMGet fetches the same path from many documents in one round-trip.
// Missing keys yield nil entries at their position.
func (s *Store) JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmd := s.b().Arbitrary("JSON.MGET").Keys(keys...).Args(path).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpJSONMGet, Err: err}
	}
	if len(raw) != len(keys) {
		return nil, &db.Error{Op: db.OpJSONMGet, Err: fmt.Errorf("expected %d values, got %d", len(keys), len(raw))}
	}

	out := make([][]byte, len(raw))
	for i := range raw {
		if raw[i].IsNil() {
			continue
		}
		str, err := raw[i].ToString()
		if err != nil {
			return nil, &db.Error{Op: db.OpJSONMGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = []byte(str)
	}
	return out, nil
}

// JSONDel removes the value at path; removing an absent path is not an error.
func (s *Store) JSONDel(ctx context.Context, key, path string) error {
	cmd := s.b().Arbitrary("JSON.DEL").Keys(key).Args(path).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONDel, Err: err}
	}
	return nil
}

// Del deletes keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := s.b().Del().Key(keys...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
