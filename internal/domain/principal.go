package domain

// Role is the authorization role of an authenticated caller.
type Role string

const (
	// RoleUser may read and review.
	RoleUser Role = "user"
	// RolePublisher may publish one bootcamp and its courses.
	RolePublisher Role = "publisher"
	// RoleAdmin may mutate anything.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// Principal identifies the caller of a mutating operation.
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal bypasses ownership checks.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
