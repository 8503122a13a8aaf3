package listing

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/devcamper/internal/domain"
	"github.com/kailas-cloud/devcamper/internal/domain/query"
)

// ForwardRef replaces a reference id held in Field with a summary of the
// referenced document. Documents whose projection dropped Field are left alone.
// A dangling reference becomes null.
type ForwardRef struct {
	Field  string
	Target Source
	Select []string
}

// Expand implements Expander.
func (r ForwardRef) Expand(ctx context.Context, docs []domain.Document) error {
	ids := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		id := d.String(r.Field)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	targets, err := r.Target.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("populate %s: %w", r.Field, err)
	}
	byID := make(map[string]domain.Document, len(targets))
	for _, t := range targets {
		byID[t.ID()] = domain.Document(query.Project(t.StripHidden(), r.Select))
	}

	for _, d := range docs {
		id := d.String(r.Field)
		if id == "" {
			continue
		}
		if t, ok := byID[id]; ok {
			d[r.Field] = t
		} else {
			d[r.Field] = nil
		}
	}
	return nil
}

// ReverseRef attaches, under As, every Target document whose ForeignField
// points back at the document. Documents without children get an empty list.
type ReverseRef struct {
	As           string
	Target       Source
	ForeignField string
}

// Expand implements Expander.
func (r ReverseRef) Expand(ctx context.Context, docs []domain.Document) error {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if id := d.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	children, err := r.Target.FindAll(ctx, query.Filter{}.Where(r.ForeignField, query.In(ids...)))
	if err != nil {
		return fmt.Errorf("populate %s: %w", r.As, err)
	}
	grouped := make(map[string][]domain.Document, len(ids))
	for _, c := range children {
		parent := c.String(r.ForeignField)
		grouped[parent] = append(grouped[parent], c.StripHidden())
	}

	for _, d := range docs {
		if d.ID() == "" {
			continue
		}
		list := grouped[d.ID()]
		if list == nil {
			list = []domain.Document{}
		}
		d[r.As] = list
	}
	return nil
}
