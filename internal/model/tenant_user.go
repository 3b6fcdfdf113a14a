package model

import "time"

// TenantUserMapping associates users with tenants. Removal is soft: setting
// RemovedDate closes the mapping but keeps the row for audit history, so
// there is no gorm soft-delete here and rows are never physically deleted.
type TenantUserMapping struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"index;not null"`
	TenantID      uint       `json:"tenant_id" gorm:"index;not null"`
	IsTenantAdmin bool       `json:"is_tenant_admin" gorm:"default:false"`
	RemovedDate   *time.Time `json:"removed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// IsCurrent reports whether the mapping is still open
func (m *TenantUserMapping) IsCurrent() bool {
	return m.RemovedDate == nil
}
