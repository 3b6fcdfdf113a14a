// Package scope derives the tenant visibility of a request principal and
// applies it to tenant-scoped queries. A scope is a tagged union: either a
// single tenant id, or unscoped platform-wide access reserved for
// super-admins. A missing or tenantless principal fails closed.
package scope

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrUnauthenticated is returned when no principal is present, or the
	// principal has no tenant to scope to and is not a super-admin.
	ErrUnauthenticated = errors.New("scope: unauthenticated principal")

	// ErrTenantMismatch is returned when a scoped principal touches a row
	// belonging to another tenant or to the global (nil-tenant) space.
	ErrTenantMismatch = errors.New("scope: tenant mismatch")
)

// Principal is the authenticated caller as seen by the core services
type Principal struct {
	UserID          uint
	Email           string
	PrimaryTenantID *uint
	IsSuperAdmin    bool
	Roles           []string
}

// Scope is the visibility derived from a principal
type Scope struct {
	unscoped bool
	tenantID uint
}

// Scoped returns a scope limited to a single tenant
func Scoped(tenantID uint) Scope {
	return Scope{tenantID: tenantID}
}

// Unscoped returns platform-wide visibility
func Unscoped() Scope {
	return Scope{unscoped: true}
}

// IsUnscoped reports whether the scope covers all tenants
func (s Scope) IsUnscoped() bool {
	return s.unscoped
}

// TenantID returns the scoped tenant id; valid only when !IsUnscoped()
func (s Scope) TenantID() uint {
	return s.tenantID
}

// Resolve determines the scope for a principal. Super-admins get unscoped
// access; everyone else is pinned to their primary tenant. There is no
// default tenant: a non-super-admin without one is rejected rather than
// widened to all tenants.
func Resolve(p *Principal) (Scope, error) {
	if p == nil {
		return Scope{}, ErrUnauthenticated
	}
	if p.IsSuperAdmin {
		return Unscoped(), nil
	}
	if p.PrimaryTenantID == nil {
		return Scope{}, ErrUnauthenticated
	}
	return Scoped(*p.PrimaryTenantID), nil
}

// Apply adds the scope's tenant predicate to a query over a tenant-scoped
// entity. Scoped visibility excludes global (nil-tenant) rows; those are
// reachable only through an unscoped principal.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.unscoped {
		return db
	}
	return db.Where("tenant_id = ?", s.tenantID)
}

// Check validates that a single row's tenant id is visible under the scope
func (s Scope) Check(entityTenantID *uint) error {
	if s.unscoped {
		return nil
	}
	if entityTenantID == nil || *entityTenantID != s.tenantID {
		return ErrTenantMismatch
	}
	return nil
}

// ForWrite returns the tenant id to stamp on a new row created under this
// scope. Unscoped writers create global rows unless they pick a tenant.
func (s Scope) ForWrite() *uint {
	if s.unscoped {
		return nil
	}
	id := s.tenantID
	return &id
}
