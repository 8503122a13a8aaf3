// Package authz decides which principal may mutate which resource.
// Roles grant actions; an "own" scope additionally requires the caller to
// own the resource (for courses: the parent bootcamp on create).
package authz

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"

	"github.com/kailas-cloud/devcamper/internal/domain"
)

// Objects.
const (
	ObjBootcamp = "bootcamp"
	ObjCourse   = "course"
)

// Actions.
const (
	ActCreate = "create"
	ActUpdate = "update"
	ActDelete = "delete"
	ActPhoto  = "photo"
)

var (
	//go:embed model.conf
	modelConf string
	//go:embed policy.csv
	policyCSV []byte
)

// Enforcer wraps a casbin enforcer loaded with the embedded model and policy.
type Enforcer struct {
	e *casbin.Enforcer
}

// New builds the enforcer.
func New() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(policyCSV))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 5 || strings.TrimSpace(parts[0]) != "p" {
			return nil, fmt.Errorf("authz policy: malformed line %q", line)
		}
		rule := make([]any, 0, 4)
		for _, p := range parts[1:] {
			rule = append(rule, strings.TrimSpace(p))
		}
		if _, err := e.AddPolicy(rule...); err != nil {
			return nil, fmt.Errorf("authz policy %q: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("authz policy: %w", err)
	}
	return &Enforcer{e: e}, nil
}

// Authorize returns nil when p may perform act on obj owned by owner,
// and a Forbidden error otherwise.
func (en *Enforcer) Authorize(p domain.Principal, obj, act, owner string) error {
	ok, err := en.e.Enforce(string(p.Role), p.UserID, obj, owner, act)
	if err != nil {
		return fmt.Errorf("enforce %s %s: %w", act, obj, err)
	}
	if ok {
		return nil
	}
	if !en.roleMay(p.Role, obj, act) {
		return domain.Errorf(domain.ErrForbidden, "User role %s is not authorized to access this route", p.Role)
	}
	return domain.Errorf(domain.ErrForbidden, "User %s is not authorized to %s this %s", p.UserID, act, obj)
}

// roleMay reports whether any policy grants the role act on obj, regardless of ownership.
func (en *Enforcer) roleMay(role domain.Role, obj, act string) bool {
	ok, err := en.e.Enforce(string(role), "", obj, "", act)
	return err == nil && ok
}
