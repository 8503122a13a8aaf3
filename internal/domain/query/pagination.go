package query

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination holds the neighbouring page descriptors of a listing.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes neighbours for a page window against total, the size of
// the whole collection (not of the filtered match set). page and limit are >= 1.
// next exists iff page*limit < total and prev iff (page-1)*limit > 0; both are
// evaluated by division so no page number can overflow them.
func Paginate(page, limit, total int) Pagination {
	var p Pagination
	if total > 0 && page <= (total-1)/limit {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Project keeps only the selected keys of a document; "id" is always kept.
// A nil selection returns the document unchanged.
func Project(doc map[string]any, fields []string) map[string]any {
	if fields == nil {
		return doc
	}
	out := make(map[string]any, len(fields)+1)
	if id, ok := doc["id"]; ok {
		out["id"] = id
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
