package models

import (
	"time"
)

// MessageType distinguishes who authored a chat message
type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeAI   MessageType = "ai"
)

// ChatMessage represents one side of a conversation turn. Messages are
// immutable once stored; history is append-only ordered by creation time.
type ChatMessage struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"column:user_id;index;not null"`
	Message   string      `json:"message" gorm:"not null"`
	Type      MessageType `json:"type" gorm:"not null;default:'user'"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName specifies the table name for ChatMessage Model
func (ChatMessage) TableName() string {
	return "chat_messages"
}
