package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant status values. A tenant is soft-disabled through Status and is
// never hard-deleted while referenced entities exist.
const (
	TenantStatusActive    = "active"
	TenantStatusInactive  = "inactive"
	TenantStatusSuspended = "suspended"
	TenantStatusArchived  = "archived"
)

// Tenant represents an isolated customer/organization partition of the data
type Tenant struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Code         string         `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	MaxUsers     int            `json:"max_users" gorm:"default:50"`
	MaxAssets    int            `json:"max_assets" gorm:"default:500"`
	MaxDocuments int            `json:"max_documents" gorm:"default:1000"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
