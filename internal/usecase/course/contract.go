package course

import (
	"context"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
)

// Repository persists courses.
type Repository interface {
	Get(ctx context.Context, id string) (*course.Course, error)
	Save(ctx context.Context, c *course.Course) error
	Delete(ctx context.Context, id string) error
	ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error)
	TuitionStats(ctx context.Context, bootcampID string) (avg float64, n int, err error)
}

// BootcampRepository is the view of bootcamps courses need.
type BootcampRepository interface {
	Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error)
	SetAverageCost(ctx context.Context, id string, cost *float64) error
}

// Validator checks request bodies against named schemas.
type Validator interface {
	Validate(name string, doc any) error
}

// Authorizer decides whether a principal may act on a resource.
type Authorizer interface {
	Authorize(p domain.Principal, obj, act, owner string) error
}
