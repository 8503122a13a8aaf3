package course

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
)

// memCourses is an in-memory Repository computing tuition stats like the store does.
type memCourses struct {
	items    map[string]course.Course
	statsErr error
	saveErr  error
}

func newMemCourses(cs ...course.Course) *memCourses {
	m := &memCourses{items: map[string]course.Course{}}
	for _, c := range cs {
		m.items[c.ID] = c
	}
	return m
}

func (m *memCourses) Get(_ context.Context, id string) (*course.Course, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCourses) Save(_ context.Context, c *course.Course) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[c.ID] = *c
	return nil
}

func (m *memCourses) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memCourses) ListByBootcamp(_ context.Context, bootcampID string) ([]course.Course, error) {
	out := []course.Course{}
	for _, c := range m.items {
		if c.Bootcamp == bootcampID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) TuitionStats(_ context.Context, bootcampID string) (float64, int, error) {
	if m.statsErr != nil {
		return 0, 0, m.statsErr
	}
	var sum float64
	var n int
	for _, c := range m.items {
		if c.Bootcamp == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}

// memBootcamps records average cost updates.
type memBootcamps struct {
	items map[string]*bootcamp.Bootcamp
	costs []*float64
}

func (m *memBootcamps) Get(_ context.Context, id string) (*bootcamp.Bootcamp, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBootcamps) SetAverageCost(_ context.Context, id string, cost *float64) error {
	m.costs = append(m.costs, cost)
	if b, ok := m.items[id]; ok {
		b.AverageCost = cost
	}
	return nil
}

type stubValidator struct{ err error }

func (v stubValidator) Validate(string, any) error { return v.err }

// ownerAuthz allows admins and owners.
type ownerAuthz struct{}

func (ownerAuthz) Authorize(p domain.Principal, _, _, owner string) error {
	if p.IsAdmin() || p.UserID == owner {
		return nil
	}
	return domain.NewError(domain.ErrForbidden, "forbidden")
}

const (
	testBootcampID = "8c1c7f1e-1d8a-4c4e-9a43-3f7e7d1f2a10"
	testOwner      = "owner-1"
)

func newTestService(cs ...course.Course) (*Service, *memCourses, *memBootcamps) {
	courses := newMemCourses(cs...)
	bootcamps := &memBootcamps{items: map[string]*bootcamp.Bootcamp{
		testBootcampID: {ID: testBootcampID, Name: "Devworks", Description: "Full stack", User: testOwner},
	}}
	svc := New(courses, bootcamps, stubValidator{}, ownerAuthz{}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, courses, bootcamps
}

func owner() domain.Principal {
	return domain.Principal{UserID: testOwner, Role: domain.RolePublisher}
}
