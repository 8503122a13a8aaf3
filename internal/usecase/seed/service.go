// Package seed loads fixture bootcamps and courses into an empty store and
// wipes them again.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultUser owns records whose fixture carries no user.
const DefaultUser = "seed"

// Stats counts what an operation touched.
type Stats struct {
	Bootcamps int
	Courses   int
}

// Service runs seed operations.
type Service struct {
	bootcamps      BootcampImporter
	courses        CourseImporter
	bootcampPurger Purger
	coursePurger   Purger
	logger         *zap.Logger
}

// New creates a seed service.
func New(bootcamps BootcampImporter, courses CourseImporter, bootcampPurger, coursePurger Purger, logger *zap.Logger) *Service {
	return &Service{
		bootcamps:      bootcamps,
		courses:        courses,
		bootcampPurger: bootcampPurger,
		coursePurger:   coursePurger,
		logger:         logger,
	}
}

// Import stores every bootcamp, then every course, then recomputes the
// average cost of each bootcamp that received courses. Fixture ids that are
// not UUIDs are mapped to stable name-based UUIDs, so course references
// resolve against the mapped bootcamp ids.
func (s *Service) Import(ctx context.Context, bootcamps, courses []map[string]any) (Stats, error) {
	var st Stats

	for i, rec := range bootcamps {
		id, user, body := split(rec)
		if id == "" {
			return st, fmt.Errorf("bootcamp #%d: missing id", i)
		}
		b, err := s.bootcamps.Import(ctx, StableID(id), user, body)
		if err != nil {
			return st, fmt.Errorf("bootcamp #%d (%s): %w", i, id, err)
		}
		st.Bootcamps++
		s.logger.Debug("Bootcamp imported", zap.String("bootcamp_id", b.ID), zap.String("slug", b.Slug))
	}

	touched := make(map[string]struct{})
	var order []string
	for i, rec := range courses {
		id, user, body := split(rec)
		if id == "" {
			return st, fmt.Errorf("course #%d: missing id", i)
		}
		ref, _ := body["bootcamp"].(string)
		delete(body, "bootcamp")
		if ref == "" {
			return st, fmt.Errorf("course #%d (%s): missing bootcamp", i, id)
		}
		bootcampID := StableID(ref)
		if _, err := s.courses.Import(ctx, StableID(id), user, bootcampID, body); err != nil {
			return st, fmt.Errorf("course #%d (%s): %w", i, id, err)
		}
		st.Courses++
		if _, ok := touched[bootcampID]; !ok {
			touched[bootcampID] = struct{}{}
			order = append(order, bootcampID)
		}
	}

	for _, id := range order {
		if err := s.courses.RecomputeAverageCost(ctx, id); err != nil {
			return st, fmt.Errorf("recompute average cost of %s: %w", id, err)
		}
	}

	s.logger.Info("Seed data imported", zap.Int("bootcamps", st.Bootcamps), zap.Int("courses", st.Courses))
	return st, nil
}

// Destroy removes all courses, then all bootcamps.
func (s *Service) Destroy(ctx context.Context) (Stats, error) {
	var st Stats
	n, err := s.coursePurger.DeleteAll(ctx)
	if err != nil {
		return st, fmt.Errorf("delete courses: %w", err)
	}
	st.Courses = n

	n, err = s.bootcampPurger.DeleteAll(ctx)
	if err != nil {
		return st, fmt.Errorf("delete bootcamps: %w", err)
	}
	st.Bootcamps = n

	s.logger.Info("Seed data destroyed", zap.Int("bootcamps", st.Bootcamps), zap.Int("courses", st.Courses))
	return st, nil
}

// StableID returns id when it is a UUID and a SHA-1 name-based UUID of it otherwise.
func StableID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// split pulls the identity fields out of a fixture record. The returned body
// is a copy safe to mutate.
func split(rec map[string]any) (id, user string, body map[string]any) {
	body = make(map[string]any, len(rec))
	for k, v := range rec {
		body[k] = v
	}
	for _, k := range []string{"_id", "id"} {
		if v, ok := body[k].(string); ok && id == "" {
			id = v
		}
		delete(body, k)
	}
	user, _ = body["user"].(string)
	delete(body, "user")
	if user == "" {
		user = DefaultUser
	}
	for _, k := range []string{"__v", "createdAt", "slug", "averageCost", "photo", "location"} {
		delete(body, k)
	}
	return id, user, body
}
