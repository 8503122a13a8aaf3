// Package photostore keeps uploaded bootcamp photos in MinIO, or on local
// disk when no object store is configured.
package photostore

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kailas-cloud/devcamper/internal/metrics"
)

const backendMinio = "minio"

// MinioConfig holds MinIO connection settings.
type MinioConfig struct {
	Endpoint  string // e.g. "minio:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// objectClient is the slice of *minio.Client the store uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	OpenObject(ctx context.Context, bucket, object string) (io.ReadSeekCloser, minio.ObjectInfo, error)
}

// sdkClient adds OpenObject to *minio.Client. GetObject is lazy, so the
// Stat call is what surfaces a missing key.
type sdkClient struct {
	*minio.Client
}

func (c sdkClient) OpenObject(ctx context.Context, bucket, object string) (io.ReadSeekCloser, minio.ObjectInfo, error) {
	obj, err := c.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, err //nolint:wrapcheck // wrapped by MinioStore.Open
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, minio.ObjectInfo{}, err //nolint:wrapcheck // wrapped by MinioStore.Open
	}
	return obj, info, nil
}

// MinioStore stores photos as objects in one bucket.
type MinioStore struct {
	client objectClient
	bucket string
}

// NewMinio connects to MinIO.
func NewMinio(cfg MinioConfig) (*MinioStore, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{client: sdkClient{mc}, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist (idempotent).
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads a photo, replacing any previous object of the same name.
func (s *MinioStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		metrics.PhotoUploadsTotal.WithLabelValues(backendMinio, "error").Inc()
		return fmt.Errorf("put object %s: %w", name, err)
	}
	metrics.PhotoUploadsTotal.WithLabelValues(backendMinio, "ok").Inc()
	return nil
}

// Open streams a stored photo; a missing object is NotFound.
func (s *MinioStore) Open(ctx context.Context, name string) (*Photo, error) {
	if !validName(name) {
		return nil, notFound(name)
	}
	body, info, err := s.client.OpenObject(ctx, s.bucket, name)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	return &Photo{Name: name, Body: body, ContentType: info.ContentType, ModTime: info.LastModified}, nil
}

// HealthCheck verifies the bucket is reachable.
func (s *MinioStore) HealthCheck(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
