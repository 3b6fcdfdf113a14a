package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the identity representation of a person: credentials, profile
// and tenant membership. A nil PrimaryTenantID together with IsSuperAdmin
// marks a platform-level account.
type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Email           string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password        string         `json:"-" gorm:"type:varchar(255)"`
	FirstName       string         `json:"first_name" gorm:"type:varchar(50)"`
	LastName        string         `json:"last_name" gorm:"type:varchar(50)"`
	Department      string         `json:"department" gorm:"type:varchar(100)"`
	Phone           string         `json:"phone" gorm:"type:varchar(30)"`
	PrimaryTenantID *uint          `json:"primary_tenant_id,omitempty" gorm:"index"`
	IsSuperAdmin    bool           `json:"is_super_admin" gorm:"default:false"`
	Active          bool           `json:"active" gorm:"default:true"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName returns the display name used for the legacy mirror
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
