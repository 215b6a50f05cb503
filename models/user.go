package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password_hash;not null"`
	Bio       string    `json:"bio" gorm:"not null;default:''"`
	ImageURL  *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Follower is a directed edge: FollowerID follows FollowingID.
type Follower struct {
	FollowerID  uint      `gorm:"primaryKey"`
	FollowingID uint      `gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
}
