package models

import "time"

// Follow is a directional edge: FollowerID follows FollowedID
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followed_id" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	CreatedAt  time.Time `json:"created_at"`

	Follower *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed *User `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}
