// Package course orchestrates course mutations and keeps the parent
// bootcamp's average cost in step with them.
package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/authz"
	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
)

const (
	schemaCreate = "course.create"
	schemaUpdate = "course.update"
)

// Detail is a course with its bootcamp inlined as a summary.
type Detail struct {
	course.Course
	Bootcamp *bootcamp.Summary `json:"bootcamp"`
}

// Service handles course use cases.
type Service struct {
	repo      Repository
	bootcamps BootcampRepository
	validator Validator
	authz     Authorizer
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a course service.
func New(repo Repository, bootcamps BootcampRepository, v Validator, a Authorizer, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		bootcamps: bootcamps,
		validator: v,
		authz:     a,
		logger:    logger,
		now:       time.Now,
	}
}

// ListByBootcamp returns every course of a bootcamp.
func (s *Service) ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error) {
	courses, err := s.repo.ListByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Get returns a course with its bootcamp summary.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Course: *c}
	b, err := s.bootcamps.Get(ctx, c.Bootcamp)
	switch {
	case err == nil:
		d.Bootcamp = &bootcamp.Summary{ID: b.ID, Name: b.Name, Description: b.Description}
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("get bootcamp of course: %w", err)
	}
	return d, nil
}

// Add creates a course under a bootcamp the principal owns.
func (s *Service) Add(ctx context.Context, p domain.Principal, bootcampID string, body map[string]any) (*course.Course, error) {
	b, err := s.bootcamps.Get(ctx, bootcampID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "No bootcamp with the id of %s", bootcampID)
		}
		return nil, fmt.Errorf("get bootcamp: %w", err)
	}
	if err := s.authz.Authorize(p, authz.ObjCourse, authz.ActCreate, b.User); err != nil {
		return nil, err
	}

	c, err := s.persist(ctx, uuid.NewString(), p.UserID, b.ID, body)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, c.Bootcamp)
	return c, nil
}

// Import stores a course under a caller-chosen id without authorization or
// recompute. The caller runs RecomputeAverageCost once its batch is in.
func (s *Service) Import(ctx context.Context, id, userID, bootcampID string, body map[string]any) (*course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "invalid course id %q", id)
	}
	if _, err := s.bootcamps.Get(ctx, bootcampID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "No bootcamp with the id of %s", bootcampID)
		}
		return nil, fmt.Errorf("get bootcamp: %w", err)
	}
	return s.persist(ctx, id, userID, bootcampID, body)
}

func (s *Service) persist(ctx context.Context, id, userID, bootcampID string, body map[string]any) (*course.Course, error) {
	in, err := s.decode(schemaCreate, body)
	if err != nil {
		return nil, err
	}

	c := &course.Course{
		ID:        id,
		Bootcamp:  bootcampID,
		User:      userID,
		CreatedAt: s.now().UTC(),
	}
	in.Apply(c)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}
	return c, nil
}

// Update changes a course the principal owns.
func (s *Service) Update(ctx context.Context, p domain.Principal, id string, body map[string]any) (*course.Course, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(p, authz.ObjCourse, authz.ActUpdate, c.User); err != nil {
		return nil, err
	}

	in, err := s.decode(schemaUpdate, body)
	if err != nil {
		return nil, err
	}
	in.Apply(c)

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}
	s.recompute(ctx, c.Bootcamp)
	return c, nil
}

// Delete removes a course the principal owns.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(p, authz.ObjCourse, authz.ActDelete, c.User); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.recompute(ctx, c.Bootcamp)
	return nil
}

// RecomputeAverageCost sets the bootcamp's averageCost to the mean tuition
// of its courses rounded up to the next multiple of 10. A bootcamp without
// courses has no average cost.
func (s *Service) RecomputeAverageCost(ctx context.Context, bootcampID string) error {
	avg, n, err := s.repo.TuitionStats(ctx, bootcampID)
	if err != nil {
		return fmt.Errorf("tuition stats: %w", err)
	}

	var cost *float64
	if n > 0 {
		v := AverageCost(avg)
		cost = &v
	}
	if err := s.bootcamps.SetAverageCost(ctx, bootcampID, cost); err != nil {
		return fmt.Errorf("set average cost: %w", err)
	}
	return nil
}

// AverageCost rounds a mean tuition up to the next multiple of 10.
func AverageCost(mean float64) float64 {
	return math.Ceil(mean/10) * 10
}

// recompute is the best-effort form used after mutations.
func (s *Service) recompute(ctx context.Context, bootcampID string) {
	if err := s.RecomputeAverageCost(ctx, bootcampID); err != nil {
		s.logger.Warn("Average cost recompute failed",
			zap.String("bootcamp_id", bootcampID),
			zap.Error(err),
		)
	}
}

func (s *Service) get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "No course with the id of %s", id)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

func (s *Service) decode(schema string, body map[string]any) (course.Input, error) {
	var in course.Input
	if err := s.validator.Validate(schema, body); err != nil {
		return in, err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return in, fmt.Errorf("marshal course input: %w", err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, domain.Errorf(domain.ErrValidation, "invalid course: %v", err)
	}
	return in, nil
}
