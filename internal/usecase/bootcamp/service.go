// Package bootcamp orchestrates bootcamp lifecycle steps explicitly:
// slug, geocode and persist on create; cascade on delete.
package bootcamp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/authz"
	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/course"
	"github.com/kailas-cloud/devcamper/internal/domain/geo"
)

const (
	schemaCreate = "bootcamp.create"
	schemaUpdate = "bootcamp.update"
)

// Detail is a bootcamp with its courses.
type Detail struct {
	bootcamp.Bootcamp
	Courses []course.Course `json:"courses"`
}

// Upload is an incoming photo file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service handles bootcamp use cases.
type Service struct {
	repo           Repository
	courses        CourseRepository
	geocoder       Geocoder
	photos         PhotoStore
	validator      Validator
	authz          Authorizer
	maxPhotoUpload int64
	logger         *zap.Logger
	now            func() time.Time
}

// New creates a bootcamp service. maxPhotoUpload is in bytes.
func New(
	repo Repository, courses CourseRepository, geocoder Geocoder, photos PhotoStore,
	v Validator, a Authorizer, maxPhotoUpload int64, logger *zap.Logger,
) *Service {
	return &Service{
		repo:           repo,
		courses:        courses,
		geocoder:       geocoder,
		photos:         photos,
		validator:      v,
		authz:          a,
		maxPhotoUpload: maxPhotoUpload,
		logger:         logger,
		now:            time.Now,
	}
}

// Get returns a bootcamp with its courses.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByBootcamp(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return &Detail{Bootcamp: *b, Courses: courses}, nil
}

// Create validates, slugs, geocodes and persists a new bootcamp.
func (s *Service) Create(ctx context.Context, p domain.Principal, body map[string]any) (*bootcamp.Bootcamp, error) {
	if err := s.authz.Authorize(p, authz.ObjBootcamp, authz.ActCreate, ""); err != nil {
		return nil, err
	}
	in, err := s.decode(schemaCreate, body)
	if err != nil {
		return nil, err
	}
	if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
		return nil, domain.NewError(domain.ErrValidation, "Please add an address")
	}

	if !p.IsAdmin() {
		n, err := s.repo.CountByUser(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("count bootcamps: %w", err)
		}
		if n > 0 {
			return nil, domain.Errorf(domain.ErrValidation,
				"The user with ID %s has already published a bootcamp", p.UserID)
		}
	}

	b, err := s.persist(ctx, uuid.NewString(), p.UserID, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Bootcamp created",
		zap.String("bootcamp_id", b.ID),
		zap.String("slug", b.Slug),
		zap.String("user_id", p.UserID),
	)
	return b, nil
}

// Import stores a bootcamp under a caller-chosen id and owner, skipping
// authorization and the one-per-publisher rule. Used by the seeder.
func (s *Service) Import(ctx context.Context, id, userID string, body map[string]any) (*bootcamp.Bootcamp, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "invalid bootcamp id %q", id)
	}
	in, err := s.decode(schemaCreate, body)
	if err != nil {
		return nil, err
	}
	if in.Address == nil || strings.TrimSpace(*in.Address) == "" {
		return nil, domain.NewError(domain.ErrValidation, "Please add an address")
	}
	return s.persist(ctx, id, userID, in)
}

// persist builds, geocodes and saves a new bootcamp. in.Address must be set.
func (s *Service) persist(ctx context.Context, id, userID string, in bootcamp.Input) (*bootcamp.Bootcamp, error) {
	b := &bootcamp.Bootcamp{
		ID:        id,
		Careers:   []string{},
		Photo:     bootcamp.DefaultPhoto,
		User:      userID,
		CreatedAt: s.now().UTC(),
	}
	in.Apply(b)
	if err := s.checkName(ctx, b.Name, ""); err != nil {
		return nil, err
	}

	loc, err := s.locate(ctx, *in.Address)
	if err != nil {
		return nil, err
	}
	b.Location = loc

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save bootcamp: %w", err)
	}
	return b, nil
}

// Update changes a bootcamp the principal owns. A new name refreshes the
// slug; a new address is geocoded again.
func (s *Service) Update(ctx context.Context, p domain.Principal, id string, body map[string]any) (*bootcamp.Bootcamp, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(p, authz.ObjBootcamp, authz.ActUpdate, b.User); err != nil {
		return nil, err
	}
	in, err := s.decode(schemaUpdate, body)
	if err != nil {
		return nil, err
	}

	oldName := b.Name
	in.Apply(b)
	if !strings.EqualFold(oldName, b.Name) {
		if err := s.checkName(ctx, b.Name, b.ID); err != nil {
			return nil, err
		}
	}
	if in.Address != nil {
		loc, err := s.locate(ctx, *in.Address)
		if err != nil {
			return nil, err
		}
		b.Location = loc
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save bootcamp: %w", err)
	}
	return b, nil
}

// Delete removes a bootcamp after removing every course that references it.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(p, authz.ObjBootcamp, authz.ActDelete, b.User); err != nil {
		return err
	}

	n, err := s.courses.DeleteByBootcamp(ctx, id)
	if err != nil {
		return fmt.Errorf("cascade delete courses: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bootcamp: %w", err)
	}
	s.logger.Info("Bootcamp deleted",
		zap.String("bootcamp_id", id),
		zap.Int("courses_deleted", n),
	)
	return nil
}

// Radius returns every bootcamp within distance miles of the postal code.
// An unresolvable postal code is NotFound.
func (s *Service) Radius(ctx context.Context, zipcode string, distance float64) ([]bootcamp.Bootcamp, error) {
	if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		return nil, domain.Errorf(domain.ErrValidation, "Invalid distance %v", distance)
	}

	matches, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUpstream, "Geocoding failed for %s: %v", zipcode, err)
	}
	if len(matches) == 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "No location found for zipcode %s", zipcode)
	}
	center := matches[0]
	if !geo.ValidateCoordinates(center.Latitude(), center.Longitude()) {
		return nil, domain.Errorf(domain.ErrUpstream, "Geocoder returned invalid coordinates for %s", zipcode)
	}

	radius := geo.AngularRadius(distance)
	found, err := s.repo.WithinRadius(ctx, center, geo.RadiusMiles(radius))
	if err != nil {
		return nil, fmt.Errorf("radius search: %w", err)
	}
	return found, nil
}

// UploadPhoto stores an image for a bootcamp the principal owns and returns its file name.
func (s *Service) UploadPhoto(ctx context.Context, p domain.Principal, id string, up Upload) (string, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.authz.Authorize(p, authz.ObjBootcamp, authz.ActPhoto, b.User); err != nil {
		return "", err
	}

	if !strings.HasPrefix(up.ContentType, "image") {
		return "", domain.NewError(domain.ErrUpload, "Please upload an image file")
	}
	if s.maxPhotoUpload > 0 && up.Size > s.maxPhotoUpload {
		return "", domain.Errorf(domain.ErrUpload,
			"Please upload an image less than %s", humanize.Bytes(uint64(s.maxPhotoUpload)))
	}

	name := fmt.Sprintf("photo_%s%s", b.ID, path.Ext(up.Filename))
	if err := s.photos.Put(ctx, name, up.Body, up.Size, up.ContentType); err != nil {
		return "", fmt.Errorf("put photo: %w", err)
	}
	if err := s.repo.SetPhoto(ctx, b.ID, name); err != nil {
		return "", fmt.Errorf("set photo: %w", err)
	}
	return name, nil
}

func (s *Service) get(ctx context.Context, id string) (*bootcamp.Bootcamp, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "Bootcamp not found with id of %s", id)
		}
		return nil, fmt.Errorf("get bootcamp: %w", err)
	}
	return b, nil
}

func (s *Service) checkName(ctx context.Context, name, exceptID string) error {
	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return fmt.Errorf("check name: %w", err)
	}
	if taken {
		return domain.NewError(domain.ErrAlreadyExists, "Duplicate field value entered")
	}
	return nil
}

// locate geocodes an address into the persisted location. The raw address is not kept.
func (s *Service) locate(ctx context.Context, address string) (*geo.Point, error) {
	matches, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUpstream, "Geocoding failed: %v", err)
	}
	if len(matches) == 0 {
		return nil, domain.Errorf(domain.ErrUpstream, "Could not geocode address %q", address)
	}
	loc := matches[0]
	return &loc, nil
}

func (s *Service) decode(schema string, body map[string]any) (bootcamp.Input, error) {
	var in bootcamp.Input
	if err := s.validator.Validate(schema, body); err != nil {
		return in, err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return in, fmt.Errorf("marshal bootcamp input: %w", err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, domain.Errorf(domain.ErrValidation, "invalid bootcamp: %v", err)
	}
	return in, nil
}
