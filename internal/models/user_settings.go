package models

import (
	"time"
)

// UserSettings holds one row of dashboard preferences per user. Upserted in
// place, not versioned.
type UserSettings struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	Theme         string    `json:"theme" gorm:"not null;default:'light'"`
	Notifications bool      `json:"notifications" gorm:"not null;default:true"`
	Timezone      string    `json:"timezone" gorm:"not null;default:'UTC'"`
	Language      string    `json:"language" gorm:"not null;default:'en'"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserSettings Model
func (UserSettings) TableName() string {
	return "user_settings"
}
