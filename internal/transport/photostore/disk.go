package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/devcamper/internal/metrics"
)

const backendDisk = "disk"

// DiskStore writes photos under a directory.
type DiskStore struct {
	dir string
}

// NewDisk creates the upload directory if needed.
func NewDisk(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Put writes the photo atomically: a temp file renamed into place once complete.
func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	if !validName(name) {
		return fmt.Errorf("invalid photo name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.write(name, r); err != nil {
		metrics.PhotoUploadsTotal.WithLabelValues(backendDisk, "error").Inc()
		return err
	}
	metrics.PhotoUploadsTotal.WithLabelValues(backendDisk, "ok").Inc()
	return nil
}

func (s *DiskStore) write(name string, r io.Reader) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Open returns a stored photo for serving; unknown or malformed names are NotFound.
func (s *DiskStore) Open(_ context.Context, name string) (*Photo, error) {
	if !validName(name) {
		return nil, notFound(name)
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, notFound(name)
	}
	return &Photo{Name: name, Body: f, ModTime: info.ModTime()}, nil
}

// HealthCheck verifies the directory still exists.
func (s *DiskStore) HealthCheck(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
