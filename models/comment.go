package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"articleId" gorm:"not null;index"`
	AuthorID  uint      `json:"authorId" gorm:"not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type CommentView struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	Author    Profile   `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewCommentView(comment *Comment, author Profile) CommentView {
	return CommentView{
		ID:        comment.ID,
		Body:      comment.Body,
		Author:    author,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

type CommentsList struct {
	Comments      []CommentView `json:"comments"`
	CommentsCount int64         `json:"commentsCount"`
}
