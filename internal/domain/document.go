package domain

import "strings"

// hiddenPrefix marks persisted fields that exist only for indexing.
const hiddenPrefix = "_"

// Document is a resource rendered as a generic JSON object, the shape
// listings are projected and expanded in.
type Document map[string]any

// ID returns the document id, or "" if absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// String returns the named field when it is a string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// StripHidden removes index-only fields in place and returns d.
func (d Document) StripHidden() Document {
	for k := range d {
		if strings.HasPrefix(k, hiddenPrefix) {
			delete(d, k)
		}
	}
	return d
}
