package model

import (
	"time"

	"gorm.io/gorm"
)

// Asset statuses
const (
	AssetStatusOperational = "operational"
	AssetStatusDown        = "down"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// Asset is a tenant-scoped maintainable piece of equipment. A nil TenantID
// marks a system/global record visible to super-admins only.
type Asset struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Tag          string         `json:"tag" gorm:"type:varchar(50);index;not null"`
	Name         string         `json:"name" gorm:"type:varchar(100);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Location     string         `json:"location" gorm:"type:varchar(100)"`
	Manufacturer string         `json:"manufacturer" gorm:"type:varchar(100)"`
	SerialNumber string         `json:"serial_number" gorm:"type:varchar(100)"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'operational'"`
	Criticality  int            `json:"criticality" gorm:"default:3"` // 1 = highest
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
