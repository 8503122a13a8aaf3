// Package chi serves the devcamper REST API on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
	logpkg "github.com/kailas-cloud/devcamper/internal/logger"
	healthuc "github.com/kailas-cloud/devcamper/internal/usecase/health"
	listinguc "github.com/kailas-cloud/devcamper/internal/usecase/listing"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Config holds the dependencies of a Server.
type Config struct {
	BootcampList Lister
	CourseList   Lister
	Bootcamps    BootcampService
	Courses      CourseService
	Health       HealthChecker
	// Photos serves uploaded photos; nil leaves /uploads unmounted.
	Photos PhotoOpener
	Auth   *Authenticator
	// DefaultLimit is the page size used when a listing omits limit.
	DefaultLimit int
	// MaxUploadBytes bounds multipart photo uploads.
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	cfg           Config
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
			sentinelHandler(domain.ErrValidation, http.StatusBadRequest),
			sentinelHandler(domain.ErrAlreadyExists, http.StatusBadRequest),
			sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized),
			sentinelHandler(domain.ErrForbidden, http.StatusForbidden),
			sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests),
			sentinelHandler(domain.ErrUpload, http.StatusBadRequest),
			sentinelHandler(domain.ErrUpstream, http.StatusBadGateway),
		},
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	if s.cfg.Photos != nil {
		r.Get("/uploads/{name}", s.ServePhoto)
	}

	r.Route("/api/v1", func(r gochi.Router) {
		r.Route("/bootcamps", func(r gochi.Router) {
			r.Get("/", s.ListBootcamps)
			r.Get("/radius/{zipcode}/{distance}", s.BootcampsInRadius)
			r.Get("/{id}", s.GetBootcamp)
			r.Get("/{id}/courses", s.ListBootcampCourses)

			r.Group(func(r gochi.Router) {
				r.Use(s.cfg.Auth.Require)
				r.Post("/", s.CreateBootcamp)
				r.Put("/{id}", s.UpdateBootcamp)
				r.Delete("/{id}", s.DeleteBootcamp)
				r.Put("/{id}/photo", s.UploadBootcampPhoto)
				r.Post("/{id}/courses", s.AddCourse)
			})
		})

		r.Route("/courses", func(r gochi.Router) {
			r.Get("/", s.ListCourses)
			r.Get("/{id}", s.GetCourse)

			r.Group(func(r gochi.Router) {
				r.Use(s.cfg.Auth.Require)
				r.Put("/{id}", s.UpdateCourse)
				r.Delete("/{id}", s.DeleteCourse)
			})
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.cfg.Health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type countResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination query.Pagination `json:"pagination"`
	Data       any              `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, l Lister) {
	q, err := query.ParseWithLimit(r.URL.Query(), s.cfg.DefaultLimit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	res, err := l.List(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResult(res))
}

func listResult(res *listinguc.Result) listResponse {
	return listResponse{Success: true, Count: res.Count, Pagination: res.Pagination, Data: res.Data}
}

// decodeBody reads a JSON object body.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewError(domain.ErrValidation, "Request body is required")
		}
		return nil, domain.Errorf(domain.ErrValidation, "Invalid request body: %v", err)
	}
	if body == nil {
		return nil, domain.NewError(domain.ErrValidation, "Request body must be a JSON object")
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// clientMessage returns the message of a domain error, or its kind's text.
func clientMessage(err error, sentinel error) string {
	if msg := domain.Message(err); msg != "" {
		return msg
	}
	return sentinel.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, clientMessage(err, sentinel))
		return true
	}
}

// requestLogger prefers the per-request logger placed by the wide event middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Server Error")
}

func pathParam(r *http.Request, name string) string {
	return gochi.URLParam(r, name)
}

func mustPrincipal(r *http.Request) (domain.Principal, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return domain.Principal{}, fmt.Errorf("%w: no principal in context", domain.ErrUnauthorized)
	}
	return p, nil
}
