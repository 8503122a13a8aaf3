// Package query models listing requests: typed filters, projection, sort keys
// and page windows parsed from URL query parameters.
package query

import "strings"

// Operator is the comparison applied by a filter condition.
type Operator string

const (
	// OpEq matches values equal to the operand.
	OpEq Operator = "eq"
	// OpGt matches values strictly greater than the operand.
	OpGt Operator = "gt"
	// OpGte matches values greater than or equal to the operand.
	OpGte Operator = "gte"
	// OpLt matches values strictly less than the operand.
	OpLt Operator = "lt"
	// OpLte matches values less than or equal to the operand.
	OpLte Operator = "lte"
	// OpIn matches values contained in the operand set.
	OpIn Operator = "in"
)

// operatorMarker is the prefix store-style operator tokens carry ($gt, $in).
const operatorMarker = "$"

var bracketOperators = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// ParseOperator resolves a bracket token (gt, $gt, ...) to an Operator.
// A leading "$" is accepted so already-prefixed tokens resolve to the same operator.
func ParseOperator(token string) (Operator, bool) {
	op, ok := bracketOperators[strings.TrimPrefix(token, operatorMarker)]
	return op, ok
}

// IsRange reports whether the operator bounds a value from one side.
func (o Operator) IsRange() bool {
	return o == OpGt || o == OpGte || o == OpLt || o == OpLte
}

// ComparisonExpr is a tagged comparison: the operator plus its raw string operand(s).
// Operands are kept as strings; coercion is up to the store translating the expression.
type ComparisonExpr struct {
	op     Operator
	values []string
}

// Eq builds an equality comparison.
func Eq(v string) ComparisonExpr { return ComparisonExpr{op: OpEq, values: []string{v}} }

// Gt builds a strict lower bound.
func Gt(v string) ComparisonExpr { return ComparisonExpr{op: OpGt, values: []string{v}} }

// Gte builds an inclusive lower bound.
func Gte(v string) ComparisonExpr { return ComparisonExpr{op: OpGte, values: []string{v}} }

// Lt builds a strict upper bound.
func Lt(v string) ComparisonExpr { return ComparisonExpr{op: OpLt, values: []string{v}} }

// Lte builds an inclusive upper bound.
func Lte(v string) ComparisonExpr { return ComparisonExpr{op: OpLte, values: []string{v}} }

// In builds a set membership comparison.
func In(vs ...string) ComparisonExpr {
	return ComparisonExpr{op: OpIn, values: append([]string(nil), vs...)}
}

// Op returns the comparison operator.
func (e ComparisonExpr) Op() Operator { return e.op }

// Value returns the single operand (the first one for OpIn).
func (e ComparisonExpr) Value() string {
	if len(e.values) == 0 {
		return ""
	}
	return e.values[0]
}

// Values returns all operands.
func (e ComparisonExpr) Values() []string { return e.values }

// Condition binds a comparison to a document field.
type Condition struct {
	Field string
	Expr  ComparisonExpr
}

// Filter is a conjunction of conditions, in field-name order.
type Filter []Condition

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool { return len(f) == 0 }

// Fields returns the distinct field names referenced by the filter.
func (f Filter) Fields() []string {
	seen := make(map[string]bool, len(f))
	out := make([]string, 0, len(f))
	for _, c := range f {
		if !seen[c.Field] {
			seen[c.Field] = true
			out = append(out, c.Field)
		}
	}
	return out
}

// Where returns a copy of f with an additional condition appended.
func (f Filter) Where(field string, e ComparisonExpr) Filter {
	out := make(Filter, 0, len(f)+1)
	out = append(out, f...)
	return append(out, Condition{Field: field, Expr: e})
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}
