package models

import "time"

// MaxMessageLength bounds Message.Text in characters.
const MaxMessageLength = 140

// Message is a short post ("warble") owned by exactly one user. Timestamp is
// assigned by the database layer when the row is inserted.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"size:140;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index;autoCreateTime"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// CreateMessageRequest is the form posted to /messages/new
type CreateMessageRequest struct {
	Text string `form:"text" validate:"required,max=140"`
}
