// Package resource names the persisted collections: their key space, FT index
// and the index schema filters and sorts are checked against.
package resource

import (
	"strings"

	"github.com/kailas-cloud/devcamper/internal/db"
)

// Hidden index-only fields persisted next to every document.
const (
	FieldCreatedAt = "_createdAt"
	FieldGeo       = "_geo"
)

// Resource is one JSON document collection with its FT index.
type Resource struct {
	name      string
	keyPrefix string
	def       *db.IndexDefinition
}

// Bootcamps describes the bootcamp collection under the given global key prefix.
func Bootcamps(prefix string) *Resource {
	r := &Resource{name: "bootcamps", keyPrefix: prefix + "bootcamps:"}
	r.def = db.NewIndex(r.keyPrefix+"idx").
		Prefix(r.keyPrefix).
		Tag("$.name", "name", true).
		Tag("$.slug", "slug", false).
		Text("$.description", "description").
		Tag("$.careers[*]", "careers", false).
		Numeric("$.averageCost", "averageCost", true).
		Numeric("$.averageRating", "averageRating", true).
		Tag("$.housing", "housing", false).
		Tag("$.jobAssistance", "jobAssistance", false).
		Tag("$.jobGuarantee", "jobGuarantee", false).
		Tag("$.acceptGi", "acceptGi", false).
		Tag("$.user", "user", false).
		Tag("$.location.city", "city", false).
		Tag("$.location.state", "state", false).
		Tag("$.location.zipcode", "zipcode", false).
		Numeric("$."+FieldCreatedAt, "createdAt", true).
		Geo("$."+FieldGeo, "location").
		MustBuild()
	return r
}

// Courses describes the course collection under the given global key prefix.
func Courses(prefix string) *Resource {
	r := &Resource{name: "courses", keyPrefix: prefix + "courses:"}
	r.def = db.NewIndex(r.keyPrefix+"idx").
		Prefix(r.keyPrefix).
		Tag("$.title", "title", true).
		Text("$.description", "description").
		Tag("$.weeks", "weeks", true).
		Numeric("$.tuition", "tuition", true).
		Tag("$.minimumSkill", "minimumSkill", true).
		Tag("$.scholarshipAvailable", "scholarshipAvailable", false).
		Tag("$.bootcamp", "bootcamp", false).
		Tag("$.user", "user", false).
		Numeric("$."+FieldCreatedAt, "createdAt", true).
		MustBuild()
	return r
}

// Name is the collection name, e.g. "bootcamps".
func (r *Resource) Name() string { return r.name }

// Key returns the storage key of a document.
func (r *Resource) Key(id string) string { return r.keyPrefix + id }

// Keys maps ids to storage keys.
func (r *Resource) Keys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.Key(id)
	}
	return keys
}

// IDFromKey strips the key prefix.
func (r *Resource) IDFromKey(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix)
}

// IndexName returns the FT index name.
func (r *Resource) IndexName() string { return r.def.Name }

// Definition returns the FT index definition.
func (r *Resource) Definition() *db.IndexDefinition { return r.def }

// Schema returns the attributes queries may filter and sort by.
func (r *Resource) Schema() db.Schema { return r.def.Schema() }
