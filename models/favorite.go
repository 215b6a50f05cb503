package models

import "time"

// Favorite is unique per (user, article) through its composite key.
type Favorite struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	ArticleID uint      `json:"article_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
