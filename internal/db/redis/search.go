package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/devcamper/internal/db"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// keyField is the pseudo-attribute FT.AGGREGATE exposes the document key under.
const keyField = "__key"

// Find runs a filtered, sorted, windowed scan via FT.AGGREGATE.
// Each entry carries the whole JSON document under the "$" field.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	queryStr, err := buildQuery(q.Schema, q.Filter)
	if err != nil {
		return nil, err
	}
	sortArgs, err := buildSortArgs(q.Schema, q.Sort)
	if err != nil {
		return nil, err
	}

	args := []string{q.IndexName, queryStr, "LOAD", "2", "@" + keyField, "$"}
	args = append(args, sortArgs...)
	args = append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}

	rows := parseAggregateRows(raw)
	entries := make([]db.SearchEntry, 0, len(rows))
	for _, row := range rows {
		key := row[keyField]
		delete(row, keyField)
		entries = append(entries, db.SearchEntry{Key: key, Fields: row})
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// Count returns the number of documents matching the filter.
func (s *Store) Count(ctx context.Context, q *db.FindQuery) (int, error) {
	queryStr, err := buildQuery(q.Schema, q.Filter)
	if err != nil {
		return 0, err
	}
	return s.SearchCount(ctx, q.IndexName, queryStr)
}

// SearchRadius selects documents whose GEO field lies within the radius.
// A zero Limit only counts: the result carries Total and no entries.
func (s *Store) SearchRadius(ctx context.Context, q *db.RadiusQuery) (*db.SearchResult, error) {
	if q.IndexName == "" || q.Field == "" {
		return nil, fmt.Errorf("index name and field are required")
	}
	if q.RadiusMiles < 0 {
		return nil, fmt.Errorf("%w: negative radius", db.ErrInvalidQuery)
	}

	queryStr := fmt.Sprintf("@%s:[%s %s %s mi]",
		q.Field, formatFloat(q.Longitude), formatFloat(q.Latitude), formatFloat(q.RadiusMiles))

	args := []string{q.IndexName, queryStr,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseListResult(raw)
}

// SearchCount returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, queryStr string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, queryStr, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return 0, db.ErrIndexNotFound
		}
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// Aggregate groups matching documents and applies the reducers.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]map[string]string, error) {
	if q.IndexName == "" || q.GroupBy == "" {
		return nil, fmt.Errorf("index name and group field are required")
	}
	if len(q.Reducers) == 0 {
		return nil, fmt.Errorf("at least one reducer is required")
	}

	queryStr, err := buildQuery(q.Schema, q.Filter)
	if err != nil {
		return nil, err
	}

	args := []string{q.IndexName, queryStr, "GROUPBY", "1", "@" + q.GroupBy}
	for _, r := range q.Reducers {
		args = append(args, "REDUCE", r.Func)
		if r.Field == "" {
			args = append(args, "0")
		} else {
			args = append(args, "1", "@"+r.Field)
		}
		args = append(args, "AS", r.As)
	}
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return parseAggregateRows(raw), nil
}

// --- Result parsing ---

// parseAggregateRows reads [count, row1, row2, ...] where every row is a flat field/value array.
func parseAggregateRows(raw []rueidis.RedisMessage) []map[string]string {
	if len(raw) < 2 {
		return nil
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		fields, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(fields))
	}
	return rows
}

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery translates a typed filter into a RediSearch query string.
// Operands are coerced to numbers only for NUMERIC attributes.
func buildQuery(schema db.Schema, f query.Filter) (string, error) {
	if f.IsEmpty() {
		return "*", nil
	}

	parts := make([]string, 0, len(f))
	for _, cond := range f {
		part, err := buildCondition(schema, cond)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " "), nil
}

func buildCondition(schema db.Schema, cond query.Condition) (string, error) {
	field, ok := schema.Lookup(cond.Field)
	if !ok {
		return "", fmt.Errorf("%w: unknown filter field %q", db.ErrInvalidQuery, cond.Field)
	}

	switch field.Type {
	case db.IndexFieldTag:
		return buildTagCondition(cond)
	case db.IndexFieldNumeric:
		return buildNumericCondition(cond)
	case db.IndexFieldText:
		// Full-text matching is tokenized and stemmed, so it cannot express equality.
		return "", fmt.Errorf("%w: %q is a full-text field and cannot be filtered", db.ErrInvalidQuery, cond.Field)
	default:
		return "", fmt.Errorf("%w: field %q cannot be filtered", db.ErrInvalidQuery, cond.Field)
	}
}

func buildTagCondition(cond query.Condition) (string, error) {
	switch cond.Expr.Op() {
	case query.OpEq, query.OpIn:
		vals := make([]string, 0, len(cond.Expr.Values()))
		for _, v := range cond.Expr.Values() {
			vals = append(vals, tagEscaper.Replace(v))
		}
		return fmt.Sprintf("@%s:{%s}", cond.Field, strings.Join(vals, " | ")), nil
	default:
		return "", fmt.Errorf("%w: operator %s is not supported on %q", db.ErrInvalidQuery, cond.Expr.Op(), cond.Field)
	}
}

func buildNumericCondition(cond query.Condition) (string, error) {
	nums := make([]string, 0, len(cond.Expr.Values()))
	for _, v := range cond.Expr.Values() {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q expects a number, got %q", db.ErrInvalidQuery, cond.Field, v)
		}
		nums = append(nums, formatFloat(n))
	}

	key := cond.Field
	switch cond.Expr.Op() {
	case query.OpEq:
		return fmt.Sprintf("@%s:[%s %s]", key, nums[0], nums[0]), nil
	case query.OpGt:
		return fmt.Sprintf("@%s:[(%s +inf]", key, nums[0]), nil
	case query.OpGte:
		return fmt.Sprintf("@%s:[%s +inf]", key, nums[0]), nil
	case query.OpLt:
		return fmt.Sprintf("@%s:[-inf (%s]", key, nums[0]), nil
	case query.OpLte:
		return fmt.Sprintf("@%s:[-inf %s]", key, nums[0]), nil
	case query.OpIn:
		parts := make([]string, 0, len(nums))
		for _, n := range nums {
			parts = append(parts, fmt.Sprintf("@%s:[%s %s]", key, n, n))
		}
		return "(" + strings.Join(parts, " | ") + ")", nil
	}
	return "", fmt.Errorf("%w: unknown operator %q", db.ErrInvalidQuery, cond.Expr.Op())
}

func buildSortArgs(schema db.Schema, keys []query.SortKey) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	args := []string{"SORTBY", strconv.Itoa(len(keys) * 2)}
	for _, k := range keys {
		field, ok := schema.Lookup(k.Field)
		if !ok || !field.Sortable {
			return nil, fmt.Errorf("%w: cannot sort by %q", db.ErrInvalidQuery, k.Field)
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		args = append(args, "@"+k.Field, dir)
	}
	return args, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

