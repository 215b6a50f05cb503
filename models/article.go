package models

import "time"

type Article struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	AuthorID       uint      `json:"author_id" gorm:"not null;index"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description" gorm:"not null"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	IsDraft        bool      `json:"is_draft" gorm:"not null;default:false"`
	CurrentVersion int       `json:"current_version" gorm:"not null;default:1"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
