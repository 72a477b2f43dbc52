package entity

import (
	"time"

	"gorm.io/gorm"
)

// AlertHistory is one immutable audit row, appended on every state
// transition (fired, silenced, resolved). Rows are never updated.
type AlertHistory struct {
	gorm.Model
	AlertID   string    `gorm:"column:alert_id;size:128;index" json:"alert_id"`
	Name      string    `gorm:"column:name;size:128" json:"name"`
	Service   string    `gorm:"column:service;size:64;index" json:"service"`
	Severity  Severity  `gorm:"column:severity;size:16;index" json:"severity"`
	Status    Status    `gorm:"column:status;size:16;index" json:"status"`
	Message   string    `gorm:"column:message;size:512" json:"message"`
	Labels    string    `gorm:"column:labels;size:1024" json:"labels"` // JSON-encoded label map
	Timestamp time.Time `gorm:"column:timestamp;index" json:"timestamp"`
}

func (AlertHistory) TableName() string {
	return "af_alert_history"
}
