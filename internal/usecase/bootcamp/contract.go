package bootcamp

import (
	"context"
	"io"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
	"github.com/kailas-cloud/devcamper/internal/domain/geo"
)

// Repository persists bootcamps.
type Repository interface {
	Get(ctx context.Context, id string) (*bootcamp.Bootcamp, error)
	Save(ctx context.Context, b *bootcamp.Bootcamp) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
	NameTaken(ctx context.Context, name, exceptID string) (bool, error)
	SetPhoto(ctx context.Context, id, photo string) error
	WithinRadius(ctx context.Context, center geo.Point, miles float64) ([]bootcamp.Bootcamp, error)
}

// CourseRepository is the view of courses bootcamps need.
type CourseRepository interface {
	ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error)
	DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error)
}

// Geocoder resolves an address or postal code to candidate locations,
// best match first. No match is an empty slice, not an error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]geo.Point, error)
}

// PhotoStore keeps uploaded photos.
type PhotoStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// Validator checks request bodies against named schemas.
type Validator interface {
	Validate(name string, doc any) error
}

// Authorizer decides whether a principal may act on a resource.
type Authorizer interface {
	Authorize(p domain.Principal, obj, act, owner string) error
}
