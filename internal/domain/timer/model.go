package timer

import "time"

// DeadlineTimer is a persisted one-shot deadline callback, keyed by project
// id. Scheduling is an upsert: a second Schedule for the same key replaces
// the pending row rather than stacking a second timer.
type DeadlineTimer struct {
	ProjectID uint      `gorm:"primaryKey;column:project_id"`
	FireAt    time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"column:create_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:update_at;autoUpdateTime"`
}

func (DeadlineTimer) TableName() string {
	return "deadline_timers"
}
