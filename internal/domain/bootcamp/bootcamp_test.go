package bootcamp

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Devcentral Bootcamp":       "devcentral-bootcamp",
		"  ModernTech   Bootcamp  ": "moderntech-bootcamp",
		"Codemasters (UI/UX)":       "codemasters-ui-ux",
		"Devworks--2024!":           "devworks-2024",
		"":                          "",
		"!!!":                       "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInput_Apply(t *testing.T) {
	name := "  Devworks Bootcamp "
	housing := true
	rating := 8.5

	b := Bootcamp{Name: "Old", Slug: "old", Description: "keep", Careers: []string{"Other"}}
	Input{Name: &name, Housing: &housing, AverageRating: &rating, Careers: []string{"Business"}}.Apply(&b)

	if b.Name != "Devworks Bootcamp" || b.Slug != "devworks-bootcamp" {
		t.Fatalf("name/slug not refreshed: %q %q", b.Name, b.Slug)
	}
	if b.Description != "keep" {
		t.Errorf("untouched field changed: %q", b.Description)
	}
	if !b.Housing || b.AverageRating == nil || *b.AverageRating != 8.5 {
		t.Errorf("flags not applied: %+v", b)
	}
	if len(b.Careers) != 1 || b.Careers[0] != "Business" {
		t.Errorf("careers not replaced: %v", b.Careers)
	}
}

func TestInput_ApplyNilKeepsEverything(t *testing.T) {
	b := Bootcamp{Name: "Same", Slug: "same", Careers: []string{"Other"}, Housing: true}
	Input{}.Apply(&b)
	if b.Name != "Same" || b.Slug != "same" || !b.Housing || len(b.Careers) != 1 {
		t.Fatalf("empty input mutated bootcamp: %+v", b)
	}
}
