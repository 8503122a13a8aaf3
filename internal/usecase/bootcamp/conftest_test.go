package bootcamp

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
	"github.com/kailas-cloud/devcamper/internal/domain/geo"
)

type memBootcamps struct {
	items       map[string]bootcamp.Bootcamp
	radiusMiles float64
	radiusAt    *geo.Point
}

func (m *memBootcamps) Get(_ context.Context, id string) (*bootcamp.Bootcamp, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (m *memBootcamps) Save(_ context.Context, b *bootcamp.Bootcamp) error {
	m.items[b.ID] = *b
	return nil
}

func (m *memBootcamps) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memBootcamps) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, b := range m.items {
		if b.User == userID {
			n++
		}
	}
	return n, nil
}

func (m *memBootcamps) NameTaken(_ context.Context, name, exceptID string) (bool, error) {
	for _, b := range m.items {
		if strings.EqualFold(b.Name, name) && b.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBootcamps) SetPhoto(_ context.Context, id, photo string) error {
	b := m.items[id]
	b.Photo = photo
	m.items[id] = b
	return nil
}

func (m *memBootcamps) WithinRadius(_ context.Context, center geo.Point, miles float64) ([]bootcamp.Bootcamp, error) {
	m.radiusAt = &center
	m.radiusMiles = miles
	out := []bootcamp.Bootcamp{}
	for _, b := range m.items {
		if b.Location == nil {
			continue
		}
		d := geo.Haversine(center.Latitude(), center.Longitude(), b.Location.Latitude(), b.Location.Longitude())
		if d <= miles {
			out = append(out, b)
		}
	}
	return out, nil
}

type memCourses struct {
	items map[string]course.Course
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

func (m *memCourses) DeleteByBootcamp(_ context.Context, bootcampID string) (int, error) {
	n := 0
	for id, c := range m.items {
		if c.Bootcamp == bootcampID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

// stubGeocoder resolves addresses from a fixed table.
type stubGeocoder struct {
	table map[string]geo.Point
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) ([]geo.Point, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	p, ok := g.table[address]
	if !ok {
		return []geo.Point{}, nil
	}
	return []geo.Point{p}, nil
}

type memPhotos struct {
	names []string
	data  map[string]string
}

func (m *memPhotos) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.names = append(m.names, name)
	m.data[name] = string(b)
	return nil
}

type stubValidator struct{ err error }

func (v stubValidator) Validate(string, any) error { return v.err }

type ownerAuthz struct{}

func (ownerAuthz) Authorize(p domain.Principal, _, _, owner string) error {
	if p.Role == domain.RoleUser {
		return domain.NewError(domain.ErrForbidden, "role")
	}
	if p.IsAdmin() || owner == "" || p.UserID == owner {
		return nil
	}
	return domain.NewError(domain.ErrForbidden, "owner")
}

const bostonZip = "02118"

func bostonPoint() geo.Point {
	p := geo.NewPoint(42.3417, -71.0723)
	p.City = "Boston"
	p.Zipcode = bostonZip
	return p
}

type fixture struct {
	svc       *Service
	bootcamps *memBootcamps
	courses   *memCourses
	geocoder  *stubGeocoder
	photos    *memPhotos
}

func newFixture() *fixture {
	f := &fixture{
		bootcamps: &memBootcamps{items: map[string]bootcamp.Bootcamp{}},
		courses:   &memCourses{items: map[string]course.Course{}},
		geocoder: &stubGeocoder{table: map[string]geo.Point{
			bostonZip:                        bostonPoint(),
			"233 Bay State Rd Boston MA 02215": geo.NewPoint(42.3505, -71.1054),
		}},
		photos: &memPhotos{data: map[string]string{}},
	}
	f.svc = New(f.bootcamps, f.courses, f.geocoder, f.photos, stubValidator{}, ownerAuthz{}, 1000, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func publisher(id string) domain.Principal {
	return domain.Principal{UserID: id, Role: domain.RolePublisher}
}

func createBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "A bootcamp",
		"address":     "233 Bay State Rd Boston MA 02215",
		"careers":     []any{"Web Development", "UI/UX"},
	}
}
