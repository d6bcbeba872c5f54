package models

import (
	"time"
)

// Message is a direct message between two users.
type Message struct {
	MessageID  string `gorm:"primaryKey" json:"message_id"` // e.g. "msg_a1b2c3d4e5f6"
	FromUserID string `gorm:"index;not null" json:"from_user_id"`
	ToUserID   string `gorm:"index;not null" json:"to_user_id"`

	Content     string `gorm:"not null" json:"content"`
	MessageType string `gorm:"type:varchar(16);default:'text'" json:"message_type"`
	Read        bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
