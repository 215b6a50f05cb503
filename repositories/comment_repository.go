package repositories

import (
	"errors"

	"conduit-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Add(db *gorm.DB, articleID, authorID uint, body string) (*models.Comment, error)
	Get(db *gorm.DB, commentID uint) (*models.Comment, error)
	List(db *gorm.DB, articleID uint) ([]models.Comment, error)
	Count(db *gorm.DB, articleID uint) (int64, error)
	Delete(db *gorm.DB, commentID uint) error
}

type commentRepository struct{}

func NewCommentRepository() CommentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Add(db *gorm.DB, articleID, authorID uint, body string) (*models.Comment, error) {
	comment := &models.Comment{
		ArticleID: articleID,
		AuthorID:  authorID,
		Body:      body,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepository) Get(db *gorm.DB, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := db.Where("id = ?", commentID).Take(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// List returns the article's comments oldest first.
func (r *commentRepository) List(db *gorm.DB, articleID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := db.Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Count(db *gorm.DB, articleID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

func (r *commentRepository) Delete(db *gorm.DB, commentID uint) error {
	return db.Where("id = ?", commentID).Delete(&models.Comment{}).Error
}
