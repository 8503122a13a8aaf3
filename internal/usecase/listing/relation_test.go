package listing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

func courseDoc(id, title, bootcamp string) domain.Document {
	return domain.Document{"id": id, "title": title, "bootcamp": bootcamp, "_createdAt": 1}
}

func TestForwardRef_InlinesSummary(t *testing.T) {
	bootcamps := fiveWebBootcamps()
	courses := &memSource{docs: []domain.Document{
		courseDoc("c1", "Front End", "1"),
		courseDoc("c2", "Back End", "1"),
		courseDoc("c3", "Orphan", "missing"),
	}}
	svc := New(courses, 0, ForwardRef{Field: "bootcamp", Target: bootcamps, Select: []string{"name", "description"}})

	res, err := svc.List(context.Background(), query.ResourceQuery{Sort: []query.SortKey{{Field: "id"}}})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)

	bc, ok := res.Data[0]["bootcamp"].(domain.Document)
	require.True(t, ok)
	assert.Equal(t, domain.Document{"id": "1", "name": "Alpha", "description": "Alpha description"}, bc)
	assert.Nil(t, res.Data[2]["bootcamp"])
}

func TestForwardRef_SkipsProjectedAwayField(t *testing.T) {
	bootcamps := fiveWebBootcamps()
	courses := &memSource{docs: []domain.Document{courseDoc("c1", "Front End", "1")}}
	svc := New(courses, 0, ForwardRef{Field: "bootcamp", Target: bootcamps, Select: []string{"name"}})

	res, err := svc.List(context.Background(), query.ResourceQuery{Select: []string{"title"}})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.NotContains(t, res.Data[0], "bootcamp")
}

func TestReverseRef_AttachesChildren(t *testing.T) {
	bootcamps := fiveWebBootcamps()
	courses := &memSource{docs: []domain.Document{
		courseDoc("c1", "Front End", "1"),
		courseDoc("c2", "Back End", "1"),
		courseDoc("c3", "Data", "3"),
	}}
	svc := New(bootcamps, 0, ReverseRef{As: "courses", Target: courses, ForeignField: "bootcamp"})

	res, err := svc.List(context.Background(), query.ResourceQuery{Sort: []query.SortKey{{Field: "id"}}})
	require.NoError(t, err)
	require.Len(t, res.Data, 5)

	assert.Len(t, res.Data[0]["courses"], 2)
	assert.Len(t, res.Data[1]["courses"], 0)
	assert.NotNil(t, res.Data[1]["courses"])
	assert.Len(t, res.Data[2]["courses"], 1)
	for _, c := range res.Data[0]["courses"].([]domain.Document) {
		assert.NotContains(t, c, "_createdAt")
	}

	require.Len(t, courses.lastFilter, 1)
	assert.Equal(t, "bootcamp", courses.lastFilter[0].Field)
	assert.Equal(t, query.OpIn, courses.lastFilter[0].Expr.Op())
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5"}, courses.lastFilter[0].Expr.Values())
}
