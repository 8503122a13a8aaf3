// Package course holds the course entity and its write model.
package course

import (
	"strings"
	"time"
)

// Skills enumerates the allowed minimum skill levels.
var Skills = []string{"beginner", "intermediate", "advanced"}

// Course belongs to exactly one bootcamp through Bootcamp (the bootcamp id).
type Course struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Weeks                string    `json:"weeks"`
	Tuition              float64   `json:"tuition"`
	MinimumSkill         string    `json:"minimumSkill"`
	ScholarshipAvailable bool      `json:"scholarshipAvailable"`
	Bootcamp             string    `json:"bootcamp"`
	User                 string    `json:"user"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Input is the client-writable part of a course. Nil fields are left untouched.
type Input struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Weeks                *string  `json:"weeks"`
	Tuition              *float64 `json:"tuition"`
	MinimumSkill         *string  `json:"minimumSkill"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// Apply copies the set fields of in onto c.
func (in Input) Apply(c *Course) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Weeks != nil {
		c.Weeks = strings.TrimSpace(*in.Weeks)
	}
	if in.Tuition != nil {
		c.Tuition = *in.Tuition
	}
	if in.MinimumSkill != nil {
		c.MinimumSkill = *in.MinimumSkill
	}
	if in.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *in.ScholarshipAvailable
	}
}
