package chi

import (
	"context"

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

// Lister runs the advanced results pipeline for one resource.
type Lister interface {
	List(ctx context.Context, q query.ResourceQuery) (*listinguc.Result, error)
}

// BootcampService is the bootcamp use case surface.
type BootcampService interface {
	Get(ctx context.Context, id string) (*bootcampuc.Detail, error)
	Create(ctx context.Context, p domain.Principal, body map[string]any) (*dombc.Bootcamp, error)
	Update(ctx context.Context, p domain.Principal, id string, body map[string]any) (*dombc.Bootcamp, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	Radius(ctx context.Context, zipcode string, distance float64) ([]dombc.Bootcamp, error)
	UploadPhoto(ctx context.Context, p domain.Principal, id string, up bootcampuc.Upload) (string, error)
}

// CourseService is the course use case surface.
type CourseService interface {
	ListByBootcamp(ctx context.Context, bootcampID string) ([]domcourse.Course, error)
	Get(ctx context.Context, id string) (*courseuc.Detail, error)
	Add(ctx context.Context, p domain.Principal, bootcampID string, body map[string]any) (*domcourse.Course, error)
	Update(ctx context.Context, p domain.Principal, id string, body map[string]any) (*domcourse.Course, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

// PhotoOpener reads uploaded photos back for GET /uploads/{name}.
type PhotoOpener interface {
	Open(ctx context.Context, name string) (*photostore.Photo, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
