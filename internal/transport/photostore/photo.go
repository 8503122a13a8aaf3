package photostore

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

// Photo is an opened stored photo. The caller closes Body.
type Photo struct {
	Name        string
	Body        io.ReadSeekCloser
	ContentType string // empty when the backend does not record it
	ModTime     time.Time
}

// validName rejects anything that is not a bare file name.
func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}

func notFound(name string) error {
	return domain.Errorf(domain.ErrNotFound, "No photo named %s", name)
}
