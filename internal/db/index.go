package db

import (
	"errors"
	"strconv"
)

// IndexFieldType enumerates supported FT index field types.
type IndexFieldType int

const (
	IndexFieldNumeric IndexFieldType = iota
	IndexFieldTag
	IndexFieldText
	// IndexFieldGeo holds "lng,lat" strings.
	IndexFieldGeo
)

// IndexField is one JSONPath projected into the index under an alias.
type IndexField struct {
	Path     string
	Alias    string
	Type     IndexFieldType
	Sortable bool
}

// IndexDefinition is an FT index over JSON documents stored under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Path == "" {
			return errors.New("field path is required at index " + strconv.Itoa(i))
		}
		if f.Alias == "" {
			return errors.New("field " + f.Path + " requires an alias")
		}
		if seen[f.Alias] {
			return errors.New("duplicate field name: " + f.Alias)
		}
		seen[f.Alias] = true

		if f.Sortable && f.Type == IndexFieldGeo {
			return errors.New("geo field " + f.Alias + " cannot be sortable")
		}
	}

	return nil
}

// Schema returns the queryable view of the index fields keyed by alias.
func (idx *IndexDefinition) Schema() Schema {
	s := make(Schema, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		s[f.Alias] = SchemaField{Type: f.Type, Sortable: f.Sortable}
	}
	return s
}

// SchemaField is the query-time description of an indexed attribute.
type SchemaField struct {
	Type     IndexFieldType
	Sortable bool
}

// Schema maps attribute names to their query-time description.
type Schema map[string]SchemaField

// Lookup returns the field description for an attribute.
func (s Schema) Lookup(name string) (SchemaField, bool) {
	f, ok := s[name]
	return f, ok
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
