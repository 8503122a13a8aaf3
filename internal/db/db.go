// Package db defines the document store the repositories run on:
// JSON documents addressed by key and FT indexes over them.
package db

import (
	"context"
	"time"
)

// Store is everything the Redis Stack backend provides.
// Consumers declare the narrow subset they need.
//
//nolint:interfacebloat // facade; consumers use narrow sub-interfaces
type Store interface {
	Pinger
	JSONStore
	IndexManager
	Searcher
	Aggregator
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore reads and writes whole documents or single JSONPath members.
type JSONStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONDel(ctx context.Context, key, path string) error
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, keys ...string) error
}

type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs filtered listings, counts and geo radius lookups.
type Searcher interface {
	Find(ctx context.Context, q *FindQuery) (*SearchResult, error)
	Count(ctx context.Context, q *FindQuery) (int, error)
	SearchRadius(ctx context.Context, q *RadiusQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Aggregator runs grouped reductions, e.g. average tuition per bootcamp.
type Aggregator interface {
	Aggregate(ctx context.Context, q *AggregateQuery) ([]map[string]string, error)
}
