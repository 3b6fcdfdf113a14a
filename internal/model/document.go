package model

import (
	"time"

	"gorm.io/gorm"
)

// Document is a tenant-scoped file reference (manuals, drawings, permits)
type Document struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Name      string         `json:"name" gorm:"type:varchar(150);not null"`
	Category  string         `json:"category" gorm:"type:varchar(50)"`
	Path      string         `json:"path" gorm:"type:varchar(255)"`
	AssetID   *uint          `json:"asset_id,omitempty" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
