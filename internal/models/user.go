package models

import "time"

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User is a Warbler account. Username and email are unique across all users.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"not null;uniqueIndex"`
	Username       string    `json:"username" gorm:"not null;uniqueIndex"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Password       string    `json:"-" gorm:"not null"` // bcrypt digest, never the plaintext
	CreatedAt      time.Time `json:"created_at"`
}

// UserCompact is the subset of a user shown next to messages and in lists
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

// SignupRequest is the form posted to /signup
type SignupRequest struct {
	Username string `form:"username" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	ImageURL string `form:"image_url" validate:"omitempty,url|startswith=/"`
}

// LoginRequest is the form posted to /login
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// UpdateUserRequest is the form posted to /users/profile. Password must be the
// current one; it authorizes the change and is never updated here.
type UpdateUserRequest struct {
	Username       string `form:"username" validate:"required,max=50"`
	Email          string `form:"email" validate:"required,email"`
	ImageURL       string `form:"image_url" validate:"omitempty,url|startswith=/"`
	HeaderImageURL string `form:"header_image_url" validate:"omitempty,url|startswith=/"`
	Bio            string `form:"bio" validate:"max=280"`
	Location       string `form:"location" validate:"max=50"`
	Password       string `form:"password" validate:"required"`
}
