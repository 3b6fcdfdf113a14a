package model

import "time"

// LegacyUser is the denormalized projection of an identity User kept for
// backward-compatible reporting queries. The identity record is the source
// of truth; every field here is overwritten on sync. IdentityID is the
// back-reference stamped on first sync, and at most one row may exist per
// identity user.
type LegacyUser struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	IdentityID *uint     `json:"identity_id,omitempty" gorm:"uniqueIndex"`
	Email      string    `json:"email" gorm:"type:varchar(100);index;not null"`
	FullName   string    `json:"full_name" gorm:"type:varchar(120)"`
	Role       string    `json:"role" gorm:"type:varchar(50)"`
	Department string    `json:"department" gorm:"type:varchar(100)"`
	Phone      string    `json:"phone" gorm:"type:varchar(30)"`
	TenantID   *uint     `json:"tenant_id,omitempty" gorm:"index"`
	Active     bool      `json:"active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
