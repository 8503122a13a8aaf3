package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/devcamper/internal/auth"
	"github.com/kailas-cloud/devcamper/internal/domain"
	dombc "github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	domcourse "github.com/kailas-cloud/devcamper/internal/domain/course"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
	bootcampuc "github.com/kailas-cloud/devcamper/internal/usecase/bootcamp"
	courseuc "github.com/kailas-cloud/devcamper/internal/usecase/course"
	healthuc "github.com/kailas-cloud/devcamper/internal/usecase/health"
	"github.com/kailas-cloud/devcamper/internal/transport/photostore"
	listinguc "github.com/kailas-cloud/devcamper/internal/usecase/listing"
)

const testSecret = "test-secret"

type mockLister struct {
	listFn func(ctx context.Context, q query.ResourceQuery) (*listinguc.Result, error)
}

func (m *mockLister) List(ctx context.Context, q query.ResourceQuery) (*listinguc.Result, error) {
	return m.listFn(ctx, q)
}

type mockBootcamps struct {
	getFn    func(ctx context.Context, id string) (*bootcampuc.Detail, error)
	createFn func(ctx context.Context, p domain.Principal, body map[string]any) (*dombc.Bootcamp, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, body map[string]any) (*dombc.Bootcamp, error)
	deleteFn func(ctx context.Context, p domain.Principal, id string) error
	radiusFn func(ctx context.Context, zipcode string, distance float64) ([]dombc.Bootcamp, error)
	uploadFn func(ctx context.Context, p domain.Principal, id string, up bootcampuc.Upload) (string, error)
}

func (m *mockBootcamps) Get(ctx context.Context, id string) (*bootcampuc.Detail, error) {
	return m.getFn(ctx, id)
}

func (m *mockBootcamps) Create(ctx context.Context, p domain.Principal, body map[string]any) (*dombc.Bootcamp, error) {
	return m.createFn(ctx, p, body)
}

func (m *mockBootcamps) Update(
	ctx context.Context, p domain.Principal, id string, body map[string]any,
) (*dombc.Bootcamp, error) {
	return m.updateFn(ctx, p, id, body)
}

func (m *mockBootcamps) Delete(ctx context.Context, p domain.Principal, id string) error {
	return m.deleteFn(ctx, p, id)
}

func (m *mockBootcamps) Radius(ctx context.Context, zipcode string, distance float64) ([]dombc.Bootcamp, error) {
	return m.radiusFn(ctx, zipcode, distance)
}

func (m *mockBootcamps) UploadPhoto(
	ctx context.Context, p domain.Principal, id string, up bootcampuc.Upload,
) (string, error) {
	return m.uploadFn(ctx, p, id, up)
}

type mockCourses struct {
	listFn   func(ctx context.Context, bootcampID string) ([]domcourse.Course, error)
	getFn    func(ctx context.Context, id string) (*courseuc.Detail, error)
	addFn    func(ctx context.Context, p domain.Principal, bootcampID string, body map[string]any) (*domcourse.Course, error)
	updateFn func(ctx context.Context, p domain.Principal, id string, body map[string]any) (*domcourse.Course, error)
	deleteFn func(ctx context.Context, p domain.Principal, id string) error
}

func (m *mockCourses) ListByBootcamp(ctx context.Context, bootcampID string) ([]domcourse.Course, error) {
	return m.listFn(ctx, bootcampID)
}

func (m *mockCourses) Get(ctx context.Context, id string) (*courseuc.Detail, error) {
	return m.getFn(ctx, id)
}

func (m *mockCourses) Add(
	ctx context.Context, p domain.Principal, bootcampID string, body map[string]any,
) (*domcourse.Course, error) {
	return m.addFn(ctx, p, bootcampID, body)
}

func (m *mockCourses) Update(
	ctx context.Context, p domain.Principal, id string, body map[string]any,
) (*domcourse.Course, error) {
	return m.updateFn(ctx, p, id, body)
}

func (m *mockCourses) Delete(ctx context.Context, p domain.Principal, id string) error {
	return m.deleteFn(ctx, p, id)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// mockPhotos serves photos from an in-memory map.
type mockPhotos struct {
	files map[string]string
}

func (m *mockPhotos) Open(_ context.Context, name string) (*photostore.Photo, error) {
	body, ok := m.files[name]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "No photo named %s", name)
	}
	return &photostore.Photo{
		Name:    name,
		Body:    readSeekNopCloser{strings.NewReader(body)},
		ModTime: time.Unix(1700000000, 0),
	}, nil
}

type readSeekNopCloser struct {
	*strings.Reader
}

func (readSeekNopCloser) Close() error { return nil }

type fixture struct {
	photos       *mockPhotos
	bootcampList *mockLister
	courseList   *mockLister
	bootcamps    *mockBootcamps
	courses      *mockCourses
	health       *mockHealth
	router       http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		bootcampList: &mockLister{},
		courseList:   &mockLister{},
		bootcamps:    &mockBootcamps{},
		courses:      &mockCourses{},
		health:       &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
		photos:       &mockPhotos{files: map[string]string{}},
	}
	s := NewServer(Config{
		BootcampList:   f.bootcampList,
		CourseList:     f.courseList,
		Bootcamps:      f.bootcamps,
		Courses:        f.courses,
		Health:         f.health,
		Photos:         f.photos,
		Auth:           NewAuthenticator(testSecret),
		DefaultLimit:   25,
		MaxUploadBytes: 1 << 20,
	})
	r := gochi.NewRouter()
	s.Routes(r)
	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func bearer(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	tok, err := auth.NewToken([]byte(testSecret), userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

type envelope struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination query.Pagination `json:"pagination"`
	Data       json.RawMessage  `json:"data"`
	Error      string           `json:"error"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}
