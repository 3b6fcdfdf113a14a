package model

import "time"

// Notification categories
const (
	NotificationCategoryWorkOrders = "work_orders"
	NotificationCategoryInventory  = "inventory"
	NotificationCategoryAssets     = "assets"
)

// Notification channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "in_app"
)

// Notification attempt outcomes
const (
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
	NotificationStatusSkipped = "skipped"
)

// NotificationSettings holds one user's delivery preferences. Quiet hours
// are stored as "HH:MM" times of day; an end before the start means the
// window wraps midnight.
type NotificationSettings struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	EmailEnabled    bool      `json:"email_enabled" gorm:"default:true"`
	SMSEnabled      bool      `json:"sms_enabled" gorm:"default:false"`
	EmailWorkOrders bool      `json:"email_work_orders" gorm:"default:true"`
	EmailInventory  bool      `json:"email_inventory" gorm:"default:true"`
	EmailAssets     bool      `json:"email_assets" gorm:"default:true"`
	SMSWorkOrders   bool      `json:"sms_work_orders" gorm:"default:false"`
	SMSInventory    bool      `json:"sms_inventory" gorm:"default:false"`
	SMSAssets       bool      `json:"sms_assets" gorm:"default:false"`
	QuietHoursStart string    `json:"quiet_hours_start" gorm:"type:varchar(5)"`
	QuietHoursEnd   string    `json:"quiet_hours_end" gorm:"type:varchar(5)"`
	Phone           string    `json:"phone" gorm:"type:varchar(30)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InAppMessage is a delivered in-app notification awaiting the user
type InAppMessage struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Recipient string     `json:"recipient" gorm:"type:varchar(60);index;not null"`
	Subject   string     `json:"subject" gorm:"type:varchar(200)"`
	Body      string     `json:"body" gorm:"type:text"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationLog records one delivery attempt. Rows are insert-only and
// never updated in place.
type NotificationLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Channel   string    `json:"channel" gorm:"type:varchar(20);not null"`
	Recipient string    `json:"recipient" gorm:"type:varchar(150)"`
	Category  string    `json:"category" gorm:"type:varchar(50)"`
	Subject   string    `json:"subject" gorm:"type:varchar(200)"`
	Status    string    `json:"status" gorm:"type:varchar(20);index;not null"`
	Error     string    `json:"error,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
