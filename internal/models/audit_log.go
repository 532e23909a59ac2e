package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null;index" json:"action"` // e.g. "LOGIN", "ADD_LINK", "BULK_ADD_FAILED"
	EntityID  string    `gorm:"size:255" json:"entity_id"`            // link id, user id or url the action touched
	Details   string    `gorm:"type:text" json:"details"`             // JSON
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:100" json:"user_agent"` // "Browser / OS" summary
	RequestID string    `gorm:"size:36" json:"request_id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
