package model

import (
	"time"

	"gorm.io/gorm"
)

// SparePart is a tenant-scoped inventory item. Quantity dropping below
// MinQuantity drives low-stock notifications.
type SparePart struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    *uint          `json:"tenant_id,omitempty" gorm:"index"`
	PartNumber  string         `json:"part_number" gorm:"type:varchar(50);index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Location    string         `json:"location" gorm:"type:varchar(100)"`
	Quantity    int            `json:"quantity" gorm:"default:0"`
	MinQuantity int            `json:"min_quantity" gorm:"default:0"`
	UnitCost    float64        `json:"unit_cost" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
