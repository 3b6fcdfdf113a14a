package model

import "time"

// Role is one of the fixed role set. Its numeric level lives in a
// RoleClaim row keyed "role_level".
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole assigns a role to an identity user
type UserRole struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_user_roles_user_role,unique;not null"`
	RoleID    uint      `json:"role_id" gorm:"index:idx_user_roles_user_role,unique;not null"`
	CreatedAt time.Time `json:"created_at"`

	Role Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// RoleClaim is a key/value attribute attached to a role
type RoleClaim struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoleID    uint      `json:"role_id" gorm:"index:idx_role_claims_role_key,unique;not null"`
	ClaimType string    `json:"claim_type" gorm:"type:varchar(50);index:idx_role_claims_role_key,unique;not null"`
	Value     string    `json:"value" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"created_at"`
}
