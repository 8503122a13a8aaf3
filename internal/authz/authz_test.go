package authz

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestAuthorize(t *testing.T) {
	e := newTestEnforcer(t)
	owner := domain.Principal{UserID: "u1", Role: domain.RolePublisher}
	other := domain.Principal{UserID: "u2", Role: domain.RolePublisher}
	admin := domain.Principal{UserID: "a1", Role: domain.RoleAdmin}
	user := domain.Principal{UserID: "u3", Role: domain.RoleUser}

	tests := []struct {
		name    string
		p       domain.Principal
		obj     string
		act     string
		owner   string
		allowed bool
	}{
		{"publisher creates bootcamp", owner, ObjBootcamp, ActCreate, "", true},
		{"owner updates bootcamp", owner, ObjBootcamp, ActUpdate, "u1", true},
		{"non-owner updates bootcamp", other, ObjBootcamp, ActUpdate, "u1", false},
		{"non-owner deletes course", other, ObjCourse, ActDelete, "u1", false},
		{"owner uploads photo", owner, ObjBootcamp, ActPhoto, "u1", true},
		{"admin updates foreign bootcamp", admin, ObjBootcamp, ActUpdate, "u1", true},
		{"admin adds course to foreign bootcamp", admin, ObjCourse, ActCreate, "u1", true},
		{"user creates bootcamp", user, ObjBootcamp, ActCreate, "", false},
		{"user updates own course", user, ObjCourse, ActUpdate, "u3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Authorize(tt.p, tt.obj, tt.act, tt.owner)
			if tt.allowed && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestAuthorize_Messages(t *testing.T) {
	e := newTestEnforcer(t)

	err := e.Authorize(domain.Principal{UserID: "u3", Role: domain.RoleUser}, ObjBootcamp, ActCreate, "")
	if got := domain.Message(err); got != "User role user is not authorized to access this route" {
		t.Errorf("role message = %q", got)
	}

	err = e.Authorize(domain.Principal{UserID: "u2", Role: domain.RolePublisher}, ObjBootcamp, ActDelete, "u1")
	if got := domain.Message(err); got != "User u2 is not authorized to delete this bootcamp" {
		t.Errorf("ownership message = %q", got)
	}
}
