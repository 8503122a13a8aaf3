package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

func TestParse_Defaults(t *testing.T) {
	q, err := Parse(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Nil(t, q.Select)
	assert.Empty(t, q.Sort)
	assert.True(t, q.Filter.IsEmpty())
	assert.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, q.SortOrDefault())
}

func TestParseWithLimit_ConfiguredFallback(t *testing.T) {
	q, err := ParseWithLimit(url.Values{"limit": {"abc"}}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)

	q, err = ParseWithLimit(url.Values{"limit": {"3"}}, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Limit)

	q, err = ParseWithLimit(url.Values{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, q.Limit)
}

func TestParse_ReservedKeysAreNotFilters(t *testing.T) {
	v, err := url.ParseQuery("careers=Web+Development&select=name,careers&sort=-name&page=2&limit=2")
	require.NoError(t, err)

	q, err := Parse(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "careers"}, q.Select)
	assert.Equal(t, []SortKey{{Field: "name", Desc: true}}, q.Sort)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 2, q.Limit)
	assert.Equal(t, 2, q.StartIndex())
	assert.Equal(t, 4, q.EndIndex())
	require.Len(t, q.Filter, 1)
	assert.Equal(t, "careers", q.Filter[0].Field)
	assert.Equal(t, OpEq, q.Filter[0].Expr.Op())
	assert.Equal(t, "Web Development", q.Filter[0].Expr.Value())
}

func TestParse_InvalidPagingFallsBack(t *testing.T) {
	for _, raw := range []string{"page=0&limit=-3", "page=abc&limit=x", "page=&limit="} {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)

		q, err := Parse(v)
		require.NoError(t, err, raw)
		assert.Equal(t, DefaultPage, q.Page, raw)
		assert.Equal(t, DefaultLimit, q.Limit, raw)
	}
}

func TestParse_RejectsOverflowingWindow(t *testing.T) {
	v, err := url.ParseQuery("page=100000000000000000&limit=100")
	require.NoError(t, err)
	_, err = Parse(v)
	require.ErrorIs(t, err, domain.ErrValidation)

	v, err = url.ParseQuery("page=100000000000000000&limit=1")
	require.NoError(t, err)
	q, err := Parse(v)
	require.NoError(t, err)
	assert.Equal(t, 100000000000000000, q.Page)
	assert.Equal(t, 99999999999999999, q.StartIndex())
}

func TestParse_MultipleSortKeys(t *testing.T) {
	q, err := Parse(url.Values{"sort": {"averageCost, -createdAt"}})
	require.NoError(t, err)
	assert.Equal(t, []SortKey{{Field: "averageCost"}, {Field: "createdAt", Desc: true}}, q.Sort)
}

func TestParse_RejectsBadFieldNames(t *testing.T) {
	for _, v := range []url.Values{
		{"sort": {"-na me"}},
		{"select": {"name,$where"}},
	} {
		_, err := Parse(v)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestParseFilter_Operators(t *testing.T) {
	v, err := url.ParseQuery("averageCost[lte]=10000&averageRating[gt]=7&weeks[gte]=4&tuition[lt]=500&careers[in]=Business,UI/UX")
	require.NoError(t, err)

	f, err := ParseFilter(v)
	require.NoError(t, err)
	require.Len(t, f, 5)

	// keys come back in field order
	assert.Equal(t, Condition{Field: "averageCost", Expr: Lte("10000")}, f[0])
	assert.Equal(t, Condition{Field: "averageRating", Expr: Gt("7")}, f[1])
	assert.Equal(t, Condition{Field: "careers", Expr: In("Business", "UI/UX")}, f[2])
	assert.Equal(t, Condition{Field: "tuition", Expr: Lt("500")}, f[3])
	assert.Equal(t, Condition{Field: "weeks", Expr: Gte("4")}, f[4])
}

func TestParseFilter_RepeatedBareKeyIsMembership(t *testing.T) {
	f, err := ParseFilter(url.Values{"careers": {"Business", "Other"}})
	require.NoError(t, err)
	require.Len(t, f, 1)
	assert.Equal(t, In("Business", "Other"), f[0].Expr)
}

func TestParseFilter_ValuesAreNotCoerced(t *testing.T) {
	f, err := ParseFilter(url.Values{"housing": {"true"}, "averageCost[gt]": {"0100"}})
	require.NoError(t, err)
	assert.Equal(t, "0100", f[0].Expr.Value())
	assert.Equal(t, "true", f[1].Expr.Value())
}

func TestParseFilter_PrefixedOperatorsAreIdempotent(t *testing.T) {
	plain, err := ParseFilter(url.Values{"averageCost[gt]": {"100"}, "careers[in]": {"Business"}})
	require.NoError(t, err)

	prefixed, err := ParseFilter(url.Values{"averageCost[$gt]": {"100"}, "careers[$in]": {"Business"}})
	require.NoError(t, err)
	assert.Equal(t, plain, prefixed)

	again, err := ParseFilter(Encode(plain))
	require.NoError(t, err)
	assert.Equal(t, plain, again)

	twice, err := ParseFilter(Encode(again))
	require.NoError(t, err)
	assert.Equal(t, plain, twice)
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		vals url.Values
	}{
		{"unknown_operator", url.Values{"price[ne]": {"1"}}},
		{"double_prefix", url.Values{"price[$$gt]": {"1"}}},
		{"empty_value", url.Values{"careers": {""}}},
		{"empty_in", url.Values{"careers[in]": {" , "}}},
		{"repeated_range", url.Values{"price[gt]": {"1", "2"}}},
		{"bad_field", url.Values{"a.b": {"1"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilter(tc.vals)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestParseOperator(t *testing.T) {
	for tok, want := range map[string]Operator{"gt": OpGt, "$gte": OpGte, "lt": OpLt, "$lte": OpLte, "in": OpIn} {
		got, ok := ParseOperator(tok)
		assert.True(t, ok, tok)
		assert.Equal(t, want, got, tok)
	}
	_, ok := ParseOperator("eq")
	assert.False(t, ok)
}

func TestFilter_Where(t *testing.T) {
	base := Filter{}.Where("bootcamp", Eq("b1"))
	extended := base.Where("tuition", Gt("10"))

	assert.Len(t, base, 1)
	assert.Len(t, extended, 2)
	assert.Equal(t, []string{"bootcamp", "tuition"}, extended.Fields())
}
