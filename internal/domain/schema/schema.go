// Package schema validates request bodies against embedded JSON schemas.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

// Schema names.
const (
	BootcampCreate = "bootcamp.create"
	BootcampUpdate = "bootcamp.update"
	CourseCreate   = "course.create"
	CourseUpdate   = "course.update"
)

// rootContext is the field gojsonschema reports for object-level errors such as "required".
const rootContext = "(root)"

//go:embed *.json
var files embed.FS

// Registry holds compiled schemas by name.
type Registry struct {
	schemas map[string]*gojsonschema.Schema
}

// Load compiles every embedded schema.
func Load() (*Registry, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	r := &Registry{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, e := range entries {
		raw, err := files.ReadFile(e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", e.Name(), err)
		}
		r.schemas[strings.TrimSuffix(e.Name(), ".json")] = s
	}
	return r, nil
}

// MustLoad is Load that panics; the schemas are compiled into the binary.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks doc against the named schema. Violations are returned as a
// single ErrValidation whose message lists every failed constraint.
func (r *Registry) Validate(name string, doc any) error {
	s, ok := r.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return domain.Errorf(domain.ErrValidation, "invalid request body: %v", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		if desc.Field() == rootContext {
			msgs = append(msgs, desc.Description())
			continue
		}
		msgs = append(msgs, desc.Field()+": "+desc.Description())
	}
	return domain.NewError(domain.ErrValidation, strings.Join(msgs, ", "))
}
