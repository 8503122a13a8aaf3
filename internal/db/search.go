package db

import "github.com/kailas-cloud/devcamper/internal/domain/query"

// FindQuery is the input for a filtered, sorted, paginated document scan.
type FindQuery struct {
	IndexName string
	Schema    Schema
	Filter    query.Filter
	Sort      []query.SortKey
	Offset    int
	Limit     int
}

// RadiusQuery selects documents whose GEO field lies within RadiusMiles of a center point.
type RadiusQuery struct {
	IndexName   string
	Field       string
	Longitude   float64
	Latitude    float64
	RadiusMiles float64
	Offset      int
	Limit       int
}

// Reducer is a single REDUCE clause of an aggregation.
type Reducer struct {
	Func  string // AVG, COUNT, SUM, MIN, MAX
	Field string // empty for COUNT
	As    string
}

// AggregateQuery groups the documents matching Filter by GroupBy and applies Reducers.
type AggregateQuery struct {
	IndexName string
	Schema    Schema
	Filter    query.Filter
	GroupBy   string
	Reducers  []Reducer
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
