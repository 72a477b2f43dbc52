package entity

import (
	"time"

	"gorm.io/gorm"
)

// Silence is an operator-issued suppression of one alert. The row is the
// audit record; the matching redis key with the same duration is what the
// engine consults on the hot path.
type Silence struct {
	gorm.Model
	SilenceID string    `gorm:"column:silence_id;size:64;uniqueIndex" json:"silence_id"`
	AlertID   string    `gorm:"column:alert_id;size:128;index" json:"alert_id"`
	Comment   string    `gorm:"column:comment;size:512" json:"comment"`
	CreatedBy string    `gorm:"column:created_by;size:64" json:"created_by"`
	StartsAt  time.Time `gorm:"column:starts_at" json:"starts_at"`
	EndsAt    time.Time `gorm:"column:ends_at;index" json:"ends_at"`
	Revoked   bool      `gorm:"column:revoked" json:"revoked"`
}

func (Silence) TableName() string {
	return "af_silence"
}

// Active reports whether the silence is in effect at t.
func (s *Silence) Active(t time.Time) bool {
	return !s.Revoked && !t.Before(s.StartsAt) && t.Before(s.EndsAt)
}
