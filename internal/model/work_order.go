package model

import (
	"time"

	"gorm.io/gorm"
)

// Work order statuses
const (
	WorkOrderStatusOpen       = "open"
	WorkOrderStatusInProgress = "in_progress"
	WorkOrderStatusDone       = "done"
	WorkOrderStatusCancelled  = "cancelled"
)

// Work order priorities
const (
	WorkOrderPriorityLow      = "low"
	WorkOrderPriorityMedium   = "medium"
	WorkOrderPriorityHigh     = "high"
	WorkOrderPriorityCritical = "critical"
)

// ValidWorkOrderPriority reports whether p is one of the fixed priorities
func ValidWorkOrderPriority(p string) bool {
	switch p {
	case WorkOrderPriorityLow, WorkOrderPriorityMedium, WorkOrderPriorityHigh, WorkOrderPriorityCritical:
		return true
	}
	return false
}

// WorkOrder is a tenant-scoped maintenance job against an asset
type WorkOrder struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	TenantID     *uint          `json:"tenant_id,omitempty" gorm:"index"`
	Code         string         `json:"code" gorm:"type:varchar(40);uniqueIndex;not null"`
	Title        string         `json:"title" gorm:"type:varchar(150);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'open'"`
	Priority     string         `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	AssetID      *uint          `json:"asset_id,omitempty" gorm:"index"`
	AssignedToID *uint          `json:"assigned_to_id,omitempty" gorm:"index"`
	DueDate      *time.Time     `json:"due_date,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Asset      *Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	AssignedTo *User  `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToID"`
}
