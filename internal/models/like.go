package models

import "time"

// Like records that a user liked a message
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_message_like"`
	MessageID uint      `json:"message_id" gorm:"not null;index;uniqueIndex:idx_user_message_like"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Message *Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
