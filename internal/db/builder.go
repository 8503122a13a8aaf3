package db

import (
	"strconv"
	"strings"
)

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index definition; documents are always stored as JSON.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix restricts the index to keys under the given prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric indexes a number for range filters ([gt], [lte], ...) and sorting.
func (b *IndexBuilder) Numeric(path, alias string, sortable bool) *IndexBuilder {
	return b.field(path, alias, IndexFieldNumeric, sortable)
}

// Tag indexes an exact-match value: strings, booleans, array members.
func (b *IndexBuilder) Tag(path, alias string, sortable bool) *IndexBuilder {
	return b.field(path, alias, IndexFieldTag, sortable)
}

// Text indexes free text. Text fields are never sortable.
func (b *IndexBuilder) Text(path, alias string) *IndexBuilder {
	return b.field(path, alias, IndexFieldText, false)
}

// Geo indexes a "lng,lat" point for radius queries.
func (b *IndexBuilder) Geo(path, alias string) *IndexBuilder {
	return b.field(path, alias, IndexFieldGeo, false)
}

func (b *IndexBuilder) field(path, alias string, typ IndexFieldType, sortable bool) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Path: path, Alias: alias, Type: typ, Sortable: sortable})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild is Build for package-level resource declarations.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// Args renders the FT.CREATE arguments following the command name.
func (idx *IndexDefinition) Args() []string {
	args := []string{idx.Name, "ON", "JSON"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		args = append(args, f.Path, "AS", f.Alias, f.Type.String())
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args
}

// String returns the FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.Args(), " ")
}

func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldNumeric:
		return "NUMERIC"
	case IndexFieldTag:
		return "TAG"
	case IndexFieldText:
		return "TEXT"
	case IndexFieldGeo:
		return "GEO"
	default:
		return "UNKNOWN"
	}
}
