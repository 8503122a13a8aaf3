package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

const (
	// DefaultPage is used when page is absent or not a positive integer.
	DefaultPage = 1
	// DefaultLimit is used when limit is absent or not a positive integer.
	DefaultLimit = 25

	paramSelect = "select"
	paramSort   = "sort"
	paramPage   = "page"
	paramLimit  = "limit"
)

// DefaultSort orders listings newest first when no sort is requested.
var DefaultSort = []SortKey{{Field: "createdAt", Desc: true}}

var (
	reservedParams = map[string]bool{paramSelect: true, paramSort: true, paramPage: true, paramLimit: true}
	fieldRegex     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	bracketRegex   = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)
)

// ResourceQuery is a parsed listing request.
type ResourceQuery struct {
	Filter Filter
	Select []string // nil means every field
	Sort   []SortKey
	Page   int
	Limit  int
}

// StartIndex is the number of rows skipped before the page.
func (q ResourceQuery) StartIndex() int { return (q.Page - 1) * q.Limit }

// EndIndex is the exclusive upper row index of the page.
func (q ResourceQuery) EndIndex() int { return q.Page * q.Limit }

// CheckWindow rejects a page whose row window does not fit in an int.
func (q ResourceQuery) CheckWindow() error {
	if q.Limit > 0 && q.Page > math.MaxInt/q.Limit {
		return domain.Errorf(domain.ErrValidation, "page %d is out of range for limit %d", q.Page, q.Limit)
	}
	return nil
}

// SortOrDefault returns the requested sort keys, or newest-first.
func (q ResourceQuery) SortOrDefault() []SortKey {
	if len(q.Sort) > 0 {
		return q.Sort
	}
	return DefaultSort
}

// Parse builds a ResourceQuery from URL query parameters.
// select, sort, page and limit are consumed as paging controls; every other key is a filter.
func Parse(values url.Values) (ResourceQuery, error) {
	return ParseWithLimit(values, DefaultLimit)
}

// ParseWithLimit is Parse with a configurable fallback page size.
func ParseWithLimit(values url.Values, defaultLimit int) (ResourceQuery, error) {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	q := ResourceQuery{
		Select: splitList(values.Get(paramSelect)),
		Page:   positiveOr(values.Get(paramPage), DefaultPage),
		Limit:  positiveOr(values.Get(paramLimit), defaultLimit),
	}
	if err := q.CheckWindow(); err != nil {
		return ResourceQuery{}, err
	}

	for _, tok := range splitList(values.Get(paramSort)) {
		key := SortKey{Field: tok}
		if strings.HasPrefix(tok, "-") {
			key = SortKey{Field: tok[1:], Desc: true}
		}
		if !fieldRegex.MatchString(key.Field) {
			return ResourceQuery{}, domain.Errorf(domain.ErrValidation, "invalid sort field %q", tok)
		}
		q.Sort = append(q.Sort, key)
	}
	for _, f := range q.Select {
		if !fieldRegex.MatchString(f) {
			return ResourceQuery{}, domain.Errorf(domain.ErrValidation, "invalid select field %q", f)
		}
	}

	filter, err := ParseFilter(values)
	if err != nil {
		return ResourceQuery{}, err
	}
	q.Filter = filter

	return q, nil
}

// ParseFilter translates the non-reserved query parameters into a Filter.
// "field=v" is equality, repeated "field=a&field=b" is membership, and
// "field[op]=v" with op in gt, gte, lt, lte, in (optionally "$"-prefixed) is a comparison.
func ParseFilter(values url.Values) (Filter, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if !reservedParams[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var f Filter
	for _, key := range keys {
		cond, err := parseCondition(key, values[key])
		if err != nil {
			return nil, err
		}
		f = append(f, cond)
	}
	return f, nil
}

func parseCondition(key string, raw []string) (Condition, error) {
	field, op := key, OpEq
	if m := bracketRegex.FindStringSubmatch(key); m != nil {
		parsed, ok := ParseOperator(m[2])
		if !ok {
			return Condition{}, domain.Errorf(domain.ErrValidation, "unsupported operator %q on %q", m[2], m[1])
		}
		field, op = m[1], parsed
	}
	if !fieldRegex.MatchString(field) {
		return Condition{}, domain.Errorf(domain.ErrValidation, "invalid filter field %q", field)
	}

	vals := make([]string, 0, len(raw))
	for _, v := range raw {
		if op == OpIn {
			vals = append(vals, splitList(v)...)
			continue
		}
		vals = append(vals, v)
	}
	for _, v := range vals {
		if v == "" {
			return Condition{}, domain.Errorf(domain.ErrValidation, "empty value for filter %q", key)
		}
	}
	if len(vals) == 0 {
		return Condition{}, domain.Errorf(domain.ErrValidation, "empty value for filter %q", key)
	}

	switch {
	case op == OpIn:
		return Condition{Field: field, Expr: In(vals...)}, nil
	case op == OpEq && len(vals) > 1:
		return Condition{Field: field, Expr: In(vals...)}, nil
	case len(vals) > 1:
		return Condition{}, domain.Errorf(domain.ErrValidation, "filter %q accepts a single value", key)
	}
	return Condition{Field: field, Expr: ComparisonExpr{op: op, values: vals}}, nil
}

// Encode renders a filter back into query parameters using bracket operators.
func Encode(f Filter) url.Values {
	out := url.Values{}
	for _, c := range f {
		switch c.Expr.Op() {
		case OpEq:
			out.Add(c.Field, c.Expr.Value())
		case OpIn:
			out.Add(fmt.Sprintf("%s[%s]", c.Field, OpIn), strings.Join(c.Expr.Values(), ","))
		default:
			out.Add(fmt.Sprintf("%s[%s]", c.Field, c.Expr.Op()), c.Expr.Value())
		}
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
