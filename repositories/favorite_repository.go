package repositories

import (
	"errors"

	"conduit-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// FavoriteRepository does not deduplicate; callers check Exists first and
// the composite key rejects whatever slips through.
type FavoriteRepository interface {
	Exists(db *gorm.DB, userID, articleID uint) (bool, error)
	Count(db *gorm.DB, articleID uint) (int64, error)
	CountForArticles(db *gorm.DB, articleIDs []uint) (map[uint]int64, error)
	FavoritedAmong(db *gorm.DB, userID uint, articleIDs []uint) (map[uint]bool, error)
	Add(db *gorm.DB, articleID, userID uint) error
	Remove(db *gorm.DB, articleID, userID uint) error
}

type favoriteRepository struct{}

func NewFavoriteRepository() FavoriteRepository {
	return &favoriteRepository{}
}

func (r *favoriteRepository) Exists(db *gorm.DB, userID, articleID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) Count(db *gorm.DB, articleID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Favorite{}).
		Where("article_id = ?", articleID).
		Count(&count).Error
	return count, err
}

func (r *favoriteRepository) CountForArticles(db *gorm.DB, articleIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ArticleID uint
		Count     int64
	}
	err := db.Model(&models.Favorite{}).
		Select("article_id, COUNT(*) AS count").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ArticleID] = row.Count
	}
	return out, nil
}

func (r *favoriteRepository) FavoritedAmong(db *gorm.DB, userID uint, articleIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}

	var ids []uint
	err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *favoriteRepository) Add(db *gorm.DB, articleID, userID uint) error {
	err := db.Create(&models.Favorite{UserID: userID, ArticleID: articleID}).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.ErrArticleAlreadyFavorited
	}
	return err
}

func (r *favoriteRepository) Remove(db *gorm.DB, articleID, userID uint) error {
	return db.Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&models.Favorite{}).Error
}
