package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/authz"
	"github.com/kailas-cloud/devcamper/internal/config"
	dbRedis "github.com/kailas-cloud/devcamper/internal/db/redis"
	dombc "github.com/kailas-cloud/devcamper/internal/domain/bootcamp"
	"github.com/kailas-cloud/devcamper/internal/domain/schema"
	logpkg "github.com/kailas-cloud/devcamper/internal/logger"
	"github.com/kailas-cloud/devcamper/internal/metrics"
	bootcamprepo "github.com/kailas-cloud/devcamper/internal/repository/bootcamp"
	courserepo "github.com/kailas-cloud/devcamper/internal/repository/course"
	listingrepo "github.com/kailas-cloud/devcamper/internal/repository/listing"
	"github.com/kailas-cloud/devcamper/internal/repository/resource"
	chiTransport "github.com/kailas-cloud/devcamper/internal/transport/chi"
	"github.com/kailas-cloud/devcamper/internal/transport/geocoder"
	"github.com/kailas-cloud/devcamper/internal/transport/photostore"
	bootcampuc "github.com/kailas-cloud/devcamper/internal/usecase/bootcamp"
	courseuc "github.com/kailas-cloud/devcamper/internal/usecase/course"
	healthuc "github.com/kailas-cloud/devcamper/internal/usecase/health"
	listinguc "github.com/kailas-cloud/devcamper/internal/usecase/listing"
	"github.com/kailas-cloud/devcamper/internal/version"
)

// healthCheckTimeout bounds each component probe of GET /health.
const healthCheckTimeout = 2 * time.Second

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting devcamper API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("geocoder", cfg.Geocoder.Provider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Database.Addrs,
		Username:    cfg.Database.Username,
		Password:    cfg.Database.Password,
		DB:          cfg.Database.DB,
		DialTimeout: time.Duration(cfg.Database.DialTimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	bootcampRes := resource.Bootcamps(cfg.Storage.KeyPrefix)
	courseRes := resource.Courses(cfg.Storage.KeyPrefix)
	if err := resource.EnsureIndexes(ctx, store, bootcampRes, courseRes); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	provider, err := geocoder.New(geocoder.Config{
		Provider: cfg.Geocoder.Provider,
		APIKey:   cfg.Geocoder.APIKey,
		BaseURL:  cfg.Geocoder.BaseURL,
		Timeout:  time.Duration(cfg.Geocoder.TimeoutSec) * time.Second,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("Failed to create geocoder", zap.Error(err))
	}

	photos, err := buildPhotoStore(ctx, cfg.Uploads, logger)
	if err != nil {
		logger.Fatal("Failed to create photo store", zap.Error(err))
	}

	enforcer, err := authz.New()
	if err != nil {
		logger.Fatal("Failed to load authorization policy", zap.Error(err))
	}
	schemas := schema.MustLoad()

	// Repositories
	bootcampRepo := bootcamprepo.New(store, bootcampRes)
	courseRepo := courserepo.New(store, courseRes)
	bootcampListing := listingrepo.New(store, bootcampRes)
	courseListing := listingrepo.New(store, courseRes)

	// Use case services
	bootcampSvc := bootcampuc.New(bootcampRepo, courseRepo, provider, photos, schemas, enforcer,
		cfg.Uploads.MaxFileUpload, logger)
	courseSvc := courseuc.New(courseRepo, bootcampRepo, schemas, enforcer, logger)
	bootcampList := listinguc.New(bootcampListing, cfg.Pagination.MaxLimit,
		listinguc.ReverseRef{As: "courses", Target: courseListing, ForeignField: "bootcamp"})
	courseList := listinguc.New(courseListing, cfg.Pagination.MaxLimit,
		listinguc.ForwardRef{Field: "bootcamp", Target: bootcampListing, Select: dombc.SummaryFields})
	healthSvc := healthuc.New(store, photos, healthCheckTimeout)

	server := chiTransport.NewServer(chiTransport.Config{
		BootcampList:   bootcampList,
		CourseList:     courseList,
		Bootcamps:      bootcampSvc,
		Courses:        courseSvc,
		Health:         healthSvc,
		Photos:         photos,
		Auth:           chiTransport.NewAuthenticator(cfg.Auth.JWTSecret),
		DefaultLimit:   cfg.Pagination.DefaultLimit,
		MaxUploadBytes: cfg.Uploads.MaxFileUpload,
		Logger:         logger,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.RateLimitMiddleware(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelopeError(w, http.StatusNotFound, "Route not found")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// photoStore is what the upload flow, /uploads and the health check need.
type photoStore interface {
	bootcampuc.PhotoStore
	chiTransport.PhotoOpener
	healthuc.StorageChecker
}

// buildPhotoStore picks MinIO when an endpoint is configured, local disk otherwise.
func buildPhotoStore(ctx context.Context, cfg config.UploadsConfig, logger *zap.Logger) (photoStore, error) {
	if cfg.Endpoint == "" {
		ds, err := photostore.NewDisk(cfg.UploadPath)
		if err != nil {
			return nil, err
		}
		logger.Info("Storing photos on local disk", zap.String("path", cfg.UploadPath))
		return ds, nil
	}

	ms, err := photostore.NewMinio(photostore.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := ms.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Storing photos in MinIO",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)
	return ms, nil
}

func writeEnvelopeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeEnvelopeError(w, http.StatusInternalServerError, "Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
