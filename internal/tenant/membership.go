// Package tenant manages tenant-user membership. A membership row is
// closed by stamping RemovedDate, never deleted, so the full assignment
// history of a tenant stays queryable.
package tenant

import (
	"errors"
	"time"

	"cmms-service/internal/model"
)

// ErrNotMember is returned when a removal finds no open mapping for the
// user in the tenant.
var ErrNotMember = errors.New("tenant: user has no open mapping in tenant")

// MappingStore is the storage surface for tenant-user mapping rows.
// FindOpen returns (nil, nil) when no open mapping exists.
type MappingStore interface {
	FindOpen(userID, tenantID uint) (*model.TenantUserMapping, error)
	Create(mapping *model.TenantUserMapping) error
	Save(mapping *model.TenantUserMapping) error
	History(tenantID uint) ([]model.TenantUserMapping, error)
}

// Membership opens and closes tenant-user mappings
type Membership struct {
	store MappingStore
}

func NewMembership(store MappingStore) *Membership {
	return &Membership{store: store}
}

// Add opens a mapping for the user in the tenant. An open mapping is
// updated in place rather than duplicated. A closed mapping is left
// untouched and a fresh row is created, so re-adding a removed user
// extends the history instead of reviving the closed row. The second
// return value reports whether a new row was created.
func (m *Membership) Add(userID, tenantID uint, isTenantAdmin bool) (*model.TenantUserMapping, bool, error) {
	existing, err := m.store.FindOpen(userID, tenantID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.IsTenantAdmin != isTenantAdmin {
			existing.IsTenantAdmin = isTenantAdmin
			if err := m.store.Save(existing); err != nil {
				return nil, false, err
			}
		}
		return existing, false, nil
	}

	mapping := &model.TenantUserMapping{
		UserID:        userID,
		TenantID:      tenantID,
		IsTenantAdmin: isTenantAdmin,
	}
	if err := m.store.Create(mapping); err != nil {
		return nil, false, err
	}
	return mapping, true, nil
}

// Remove closes the open mapping by stamping RemovedDate. The closed row
// stays in the store for audit history.
func (m *Membership) Remove(userID, tenantID uint, at time.Time) error {
	open, err := m.store.FindOpen(userID, tenantID)
	if err != nil {
		return err
	}
	if open == nil {
		return ErrNotMember
	}
	open.RemovedDate = &at
	return m.store.Save(open)
}

// History returns every mapping row for the tenant, open and closed
func (m *Membership) History(tenantID uint) ([]model.TenantUserMapping, error) {
	return m.store.History(tenantID)
}
