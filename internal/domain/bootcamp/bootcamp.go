// Package bootcamp holds the bootcamp entity and its write model.
package bootcamp

import (
	"strings"
	"time"
	"unicode"

	"github.com/kailas-cloud/devcamper/internal/domain/geo"
)

// DefaultPhoto is the photo of a bootcamp nobody uploaded one for.
const DefaultPhoto = "no-photo.jpg"

// Careers enumerates the allowed career tracks.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Bootcamp is a training provider. Location is derived from the address
// given at creation; the address itself is never persisted.
type Bootcamp struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Website       string     `json:"website,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	Location      *geo.Point `json:"location,omitempty"`
	Careers       []string   `json:"careers"`
	AverageRating *float64   `json:"averageRating,omitempty"`
	AverageCost   *float64   `json:"averageCost,omitempty"`
	Photo         string     `json:"photo"`
	Housing       bool       `json:"housing"`
	JobAssistance bool       `json:"jobAssistance"`
	JobGuarantee  bool       `json:"jobGuarantee"`
	AcceptGi      bool       `json:"acceptGi"`
	User          string     `json:"user"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Input is the client-writable part of a bootcamp. Nil fields are left untouched.
type Input struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Website       *string  `json:"website"`
	Phone         *string  `json:"phone"`
	Email         *string  `json:"email"`
	Address       *string  `json:"address"`
	Careers       []string `json:"careers"`
	AverageRating *float64 `json:"averageRating"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// Apply copies the set fields of in onto b. Name changes refresh the slug.
func (in Input) Apply(b *Bootcamp) {
	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
		b.Slug = Slugify(b.Name)
	}
	setString(&b.Description, in.Description)
	setString(&b.Website, in.Website)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	if in.Careers != nil {
		b.Careers = append([]string(nil), in.Careers...)
	}
	if in.AverageRating != nil {
		v := *in.AverageRating
		b.AverageRating = &v
	}
	setBool(&b.Housing, in.Housing)
	setBool(&b.JobAssistance, in.JobAssistance)
	setBool(&b.JobGuarantee, in.JobGuarantee)
	setBool(&b.AcceptGi, in.AcceptGi)
}

// Slugify lowercases name and collapses every run of non-alphanumerics into a single "-".
func Slugify(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return sb.String()
}

// Summary is the view of a bootcamp inlined into course listings.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SummaryFields are the bootcamp fields a course expansion selects.
var SummaryFields = []string{"name", "description"}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
