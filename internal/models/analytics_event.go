package models

import (
	"time"
)

// AnalyticsEvent is an append-only log entry. EventData holds an opaque JSON
// payload; the application never updates or deletes rows here.
type AnalyticsEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;index;not null"`
	EventType string    `json:"event_type" gorm:"column:event_type;not null"`
	EventData string    `json:"event_data" gorm:"column:event_data"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AnalyticsEvent Model
func (AnalyticsEvent) TableName() string {
	return "analytics"
}
