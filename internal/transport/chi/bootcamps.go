package chi

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/domain"
	bootcampuc "github.com/kailas-cloud/devcamper/internal/usecase/bootcamp"
)

// photoField is the multipart field carrying the bootcamp photo.
const photoField = "file"

// multipartOverhead is slack on top of the photo limit for form boundaries and headers.
const multipartOverhead = 64 << 10

// ListBootcamps handles GET /api/v1/bootcamps.
func (s *Server) ListBootcamps(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, s.cfg.BootcampList)
}

// GetBootcamp handles GET /api/v1/bootcamps/{id}.
func (s *Server) GetBootcamp(w http.ResponseWriter, r *http.Request) {
	d, err := s.cfg.Bootcamps.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: d})
}

// CreateBootcamp handles POST /api/v1/bootcamps.
func (s *Server) CreateBootcamp(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	b, err := s.cfg.Bootcamps.Create(r.Context(), p, body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse{Success: true, Data: b})
}

// UpdateBootcamp handles PUT /api/v1/bootcamps/{id}.
func (s *Server) UpdateBootcamp(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	b, err := s.cfg.Bootcamps.Update(r.Context(), p, pathParam(r, "id"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: b})
}

// DeleteBootcamp handles DELETE /api/v1/bootcamps/{id}. Courses go with it.
func (s *Server) DeleteBootcamp(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.cfg.Bootcamps.Delete(r.Context(), p, pathParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: struct{}{}})
}

// BootcampsInRadius handles GET /api/v1/bootcamps/radius/{zipcode}/{distance}.
func (s *Server) BootcampsInRadius(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(pathParam(r, "distance"), 64)
	if err != nil || math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
		s.handleDomainError(w, r, domain.Errorf(domain.ErrValidation,
			"Distance must be a non-negative number, got %q", pathParam(r, "distance")))
		return
	}

	found, err := s.cfg.Bootcamps.Radius(r.Context(), pathParam(r, "zipcode"), distance)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Success: true, Count: len(found), Data: found})
}

// UploadBootcampPhoto handles PUT /api/v1/bootcamps/{id}/photo.
func (s *Server) UploadBootcampPhoto(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	}
	file, header, err := r.FormFile(photoField)
	if err != nil {
		s.handleDomainError(w, r, uploadFormError(err))
		return
	}
	defer func() { _ = file.Close() }()

	contentType, err := sniff(file)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	name, err := s.cfg.Bootcamps.UploadPhoto(r.Context(), p, pathParam(r, "id"), bootcampuc.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.requestLogger(r).Info("Photo uploaded", zap.String("file", name), zap.Int64("size", header.Size))
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: name})
}

// sniff detects the content type from the file bytes and rewinds the file.
func sniff(file multipart.File) (string, error) {
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return mt.String(), nil
}

func uploadFormError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return domain.NewError(domain.ErrUpload, "Please upload an image less than the size limit")
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return domain.NewError(domain.ErrUpload, "Please upload a file")
	default:
		return domain.Errorf(domain.ErrUpload, "Invalid upload: %v", err)
	}
}
