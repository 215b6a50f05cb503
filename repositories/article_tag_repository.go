package repositories

import (
	"conduit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleTagRepository interface {
	LinkTags(db *gorm.DB, articleID uint, tagIDs []uint) error
	TagsForArticle(db *gorm.DB, articleID uint) ([]string, error)
	TagsForArticles(db *gorm.DB, articleIDs []uint) (map[uint][]string, error)
}

type articleTagRepository struct{}

func NewArticleTagRepository() ArticleTagRepository {
	return &articleTagRepository{}
}

// LinkTags is idempotent: already linked pairs are skipped.
func (r *articleTagRepository) LinkTags(db *gorm.DB, articleID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.ArticleTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.ArticleTag{ArticleID: articleID, TagID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *articleTagRepository) TagsForArticle(db *gorm.DB, articleID uint) ([]string, error) {
	names := []string{}
	err := db.Model(&models.Tag{}).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("article_tags.created_at, tags.id").
		Pluck("tags.name", &names).Error
	return names, err
}

func (r *articleTagRepository) TagsForArticles(db *gorm.DB, articleIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ArticleID uint
		Name      string
	}
	err := db.Table("article_tags").
		Select("article_tags.article_id, tags.name").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", articleIDs).
		Order("article_tags.article_id, article_tags.created_at, tags.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ArticleID] = append(out[row.ArticleID], row.Name)
	}
	return out, nil
}
