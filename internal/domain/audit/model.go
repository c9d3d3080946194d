package audit

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is the generic request-level audit trail (who changed what over
// HTTP). Engine transition history lives in project.ProjectLog instead.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	UserID       uint           `gorm:"index"`
	Action       string         `gorm:"size:50;not null"`
	ResourceType string         `gorm:"size:50;not null"`
	ResourceID   string         `gorm:"size:100"`
	OldData      datatypes.JSON `gorm:"type:jsonb"`
	NewData      datatypes.JSON `gorm:"type:jsonb"`
	IPAddress    string         `gorm:"size:50"`
	UserAgent    string         `gorm:"size:300"`
	Description  string         `gorm:"size:500"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
