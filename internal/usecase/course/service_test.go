package course

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
)

func courseBody(tuition float64) map[string]any {
	return map[string]any{
		"title":        "Front End Web Development",
		"description":  "HTML, CSS and JavaScript",
		"weeks":        "8",
		"tuition":      tuition,
		"minimumSkill": "beginner",
	}
}

func TestAverageCost(t *testing.T) {
	assert.Equal(t, 1000.0, AverageCost(1000))
	assert.Equal(t, 1010.0, AverageCost(1000.5))
	assert.Equal(t, 9000.0, AverageCost(8991))
	assert.Equal(t, 0.0, AverageCost(0))
}

func TestAdd_FirstCourseSetsAverageCost(t *testing.T) {
	svc, courses, bootcamps := newTestService()

	c, err := svc.Add(context.Background(), owner(), testBootcampID, courseBody(1000))
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, testBootcampID, c.Bootcamp)
	assert.Equal(t, testOwner, c.User)
	assert.Equal(t, "8", c.Weeks)
	assert.Contains(t, courses.items, c.ID)

	require.NotNil(t, bootcamps.items[testBootcampID].AverageCost)
	assert.Equal(t, 1000.0, *bootcamps.items[testBootcampID].AverageCost)
}

func TestAdd_AverageIsRoundedUpMeanOfAllCourses(t *testing.T) {
	svc, _, bootcamps := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID, Tuition: 8000},
		course.Course{ID: "b", Bootcamp: testBootcampID, Tuition: 10000},
	)

	_, err := svc.Add(context.Background(), owner(), testBootcampID, courseBody(12005))
	require.NoError(t, err)

	// mean(8000, 10000, 12005) = 10001.67 -> 10010
	assert.Equal(t, 10010.0, *bootcamps.items[testBootcampID].AverageCost)
}

func TestAdd_UnknownBootcamp(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Add(context.Background(), owner(), "nope", courseBody(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "No bootcamp with the id of nope", domain.Message(err))
}

func TestAdd_ForeignBootcampIsForbidden(t *testing.T) {
	svc, courses, _ := newTestService()
	stranger := domain.Principal{UserID: "someone", Role: domain.RolePublisher}

	_, err := svc.Add(context.Background(), stranger, testBootcampID, courseBody(1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, courses.items)
}

func TestAdd_ValidationFailure(t *testing.T) {
	svc, courses, _ := newTestService()
	svc.validator = stubValidator{err: domain.NewError(domain.ErrValidation, "title is required")}

	_, err := svc.Add(context.Background(), owner(), testBootcampID, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, courses.items)
}

func TestDelete_LastCourseUnsetsAverageCost(t *testing.T) {
	svc, courses, bootcamps := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID, Tuition: 8000, User: testOwner},
	)

	require.NoError(t, svc.Delete(context.Background(), owner(), "a"))

	assert.Empty(t, courses.items)
	require.Len(t, bootcamps.costs, 1)
	assert.Nil(t, bootcamps.costs[0])
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Delete(context.Background(), owner(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_RecomputesAndKeepsOwnership(t *testing.T) {
	svc, courses, bootcamps := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID, Tuition: 8000, User: testOwner, Title: "Old"},
	)

	c, err := svc.Update(context.Background(), owner(), "a", map[string]any{"title": "New", "tuition": 9001.0})
	require.NoError(t, err)

	assert.Equal(t, "New", c.Title)
	assert.Equal(t, testOwner, courses.items["a"].User)
	assert.Equal(t, 9010.0, *bootcamps.items[testBootcampID].AverageCost)
}

func TestUpdate_Forbidden(t *testing.T) {
	svc, courses, _ := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID, Tuition: 8000, User: testOwner, Title: "Old"},
	)
	stranger := domain.Principal{UserID: "someone", Role: domain.RolePublisher}

	_, err := svc.Update(context.Background(), stranger, "a", map[string]any{"title": "New"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Old", courses.items["a"].Title)
}

func TestRecomputeFailureDoesNotFailMutation(t *testing.T) {
	svc, courses, _ := newTestService()
	courses.statsErr = errors.New("aggregate down")

	_, err := svc.Add(context.Background(), owner(), testBootcampID, courseBody(500))
	require.NoError(t, err)
	assert.Len(t, courses.items, 1)

	assert.Error(t, svc.RecomputeAverageCost(context.Background(), testBootcampID))
}

func TestGet_InlinesBootcampSummary(t *testing.T) {
	svc, _, _ := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID, Title: "Front End"},
	)

	d, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, d.Bootcamp)
	assert.Equal(t, "Devworks", d.Bootcamp.Name)
	assert.Equal(t, testBootcampID, d.Bootcamp.ID)
}

func TestListByBootcamp(t *testing.T) {
	svc, _, _ := newTestService(
		course.Course{ID: "a", Bootcamp: testBootcampID},
		course.Course{ID: "b", Bootcamp: "other"},
	)

	cs, err := svc.ListByBootcamp(context.Background(), testBootcampID)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "a", cs[0].ID)
}

func TestImport_SkipsRecompute(t *testing.T) {
	svc, courses, bootcamps := newTestService()
	const id = "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

	c, err := svc.Import(context.Background(), id, "seeder", testBootcampID, courseBody(4000))
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "seeder", c.User)
	assert.Contains(t, courses.items, id)
	assert.Nil(t, bootcamps.items[testBootcampID].AverageCost)

	require.NoError(t, svc.RecomputeAverageCost(context.Background(), testBootcampID))
	require.NotNil(t, bootcamps.items[testBootcampID].AverageCost)
	assert.Equal(t, 4000.0, *bootcamps.items[testBootcampID].AverageCost)
}

func TestImport_UnknownBootcamp(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Import(context.Background(), "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "seeder",
		"00000000-0000-0000-0000-000000000000", courseBody(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Import(context.Background(), "bad", "seeder", testBootcampID, courseBody(1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
