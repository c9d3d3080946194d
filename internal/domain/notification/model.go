package notification

import "time"

// Notification is one delivered (or pending) event for a user. Delivery
// over the websocket hub is best-effort; the row is the durable record.
type Notification struct {
	NID         uint      `gorm:"primaryKey;column:n_id;autoIncrement"`
	RecipientID uint      `gorm:"not null;index"`
	ProjectID   uint      `gorm:"index"`
	Event       string    `gorm:"size:20;not null"`
	Content     string    `gorm:"type:text"`
	Read        bool      `gorm:"default:false;not null"`
	CreatedAt   time.Time `gorm:"column:create_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
