package seed

import (
	"context"

	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
)

// BootcampImporter stores bootcamps under fixed ids.
type BootcampImporter interface {
	Import(ctx context.Context, id, userID string, body map[string]any) (*bootcamp.Bootcamp, error)
}

// CourseImporter stores courses under fixed ids and refreshes bootcamp averages.
type CourseImporter interface {
	Import(ctx context.Context, id, userID, bootcampID string, body map[string]any) (*course.Course, error)
	RecomputeAverageCost(ctx context.Context, bootcampID string) error
}

// Purger removes every record of one resource.
type Purger interface {
	DeleteAll(ctx context.Context) (int, error)
}
