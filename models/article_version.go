package models

import "time"

// ArticleVersion is an immutable snapshot of an article's content. A new one
// is written on creation and after every update.
type ArticleVersion struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ArticleID   uint      `json:"articleId" gorm:"not null;index"`
	Version     int       `json:"version" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Body        string    `json:"body" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}
