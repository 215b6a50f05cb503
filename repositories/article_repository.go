package repositories

import (
	"errors"
	"time"

	"conduit-api/helper"
	"conduit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository stores articles and their version history. Every method
// runs on the session it is given, so callers control the transaction.
// Lookups never check ownership except where the author id is an argument.
type ArticleRepository interface {
	Add(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error)
	AddDraft(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error)
	GetBySlugOrNone(db *gorm.DB, slug string) (*models.Article, error)
	GetBySlug(db *gorm.DB, slug string) (*models.Article, error)
	DeleteBySlug(db *gorm.DB, slug string) error
	UpdateBySlug(db *gorm.DB, slug string, item models.UpdateArticleInput) (*models.Article, error)
	IncrementVersion(db *gorm.DB, articleID uint) (*models.Article, error)
	AddVersion(db *gorm.DB, article *models.Article) (*models.ArticleVersion, error)
	PublishDraft(db *gorm.DB, slug string, authorID uint) (*models.Article, error)
	GetVersions(db *gorm.DB, slug string, authorID uint) ([]models.ArticleVersion, error)
	ListDrafts(db *gorm.DB, authorID uint, limit, offset int) ([]models.ArticleFeedRow, error)
	CountDrafts(db *gorm.DB, authorID uint) (int64, error)
	ListByFollowings(db *gorm.DB, followerID uint, limit, offset int) ([]models.Article, error)
	ListByFollowingsV2(db *gorm.DB, followerID uint, limit, offset int) ([]models.ArticleFeedRow, error)
	ListByFilters(db *gorm.DB, filters models.ArticleFilters, limit, offset int) ([]models.Article, error)
	ListByFiltersV2(db *gorm.DB, viewerID uint, filters models.ArticleFilters, limit, offset int) ([]models.ArticleFeedRow, error)
	CountByFollowings(db *gorm.DB, followerID uint) (int64, error)
	CountByFilters(db *gorm.DB, filters models.ArticleFilters) (int64, error)
}

type articleRepository struct{}

func NewArticleRepository() ArticleRepository {
	return &articleRepository{}
}

// feedColumns selects one denormalized row per article. Both placeholders
// take the viewer id; 0 matches nobody.
const feedColumns = `a.id, a.author_id, a.slug, a.title, a.description, a.body,
	a.is_draft, a.current_version, a.created_at, a.updated_at,
	u.username AS author_username, u.bio AS author_bio, u.image_url AS author_image,
	EXISTS (SELECT 1 FROM followers fl WHERE fl.follower_id = ? AND fl.following_id = a.author_id) AS author_following,
	(SELECT COUNT(*) FROM favorites fc WHERE fc.article_id = a.id) AS favorites_count,
	EXISTS (SELECT 1 FROM favorites fv WHERE fv.article_id = a.id AND fv.user_id = ?) AS favorited,
	COALESCE((SELECT array_agg(tg.name ORDER BY atg.created_at, tg.id)
		FROM article_tags atg JOIN tags tg ON tg.id = atg.tag_id
		WHERE atg.article_id = a.id), '{}') AS tags`

func (r *articleRepository) Add(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error) {
	return r.insert(db, authorID, item, false)
}

func (r *articleRepository) AddDraft(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error) {
	return r.insert(db, authorID, item, true)
}

func (r *articleRepository) insert(db *gorm.DB, authorID uint, item models.CreateArticleInput, draft bool) (*models.Article, error) {
	article := &models.Article{
		AuthorID:       authorID,
		Slug:           helper.NewSlug(item.Title),
		Title:          item.Title,
		Description:    item.Description,
		Body:           item.Body,
		IsDraft:        draft,
		CurrentVersion: 1,
	}
	if err := db.Create(article).Error; err != nil {
		return nil, err
	}

	if _, err := r.AddVersion(db, article); err != nil {
		return nil, err
	}
	return article, nil
}

// GetBySlugOrNone tries the exact slug first, then any article whose slug
// ends with the same random token (the title part may have been edited).
func (r *articleRepository) GetBySlugOrNone(db *gorm.DB, slug string) (*models.Article, error) {
	var article models.Article
	err := db.Where("slug = ?", slug).Take(&article).Error
	if err == nil {
		return &article, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token := helper.SlugToken(slug)
	if token == "" {
		return nil, nil
	}
	err = db.Where("slug LIKE ?", "%-"+token).Order("id").Take(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(db *gorm.DB, slug string) (*models.Article, error) {
	article, err := r.GetBySlugOrNone(db, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.ErrArticleNotFound
	}
	return article, nil
}

// DeleteBySlug relies on ON DELETE CASCADE for tags, favorites, comments
// and versions.
func (r *articleRepository) DeleteBySlug(db *gorm.DB, slug string) error {
	return db.Where("slug = ?", slug).Delete(&models.Article{}).Error
}

func (r *articleRepository) UpdateBySlug(db *gorm.DB, slug string, item models.UpdateArticleInput) (*models.Article, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if item.Title != nil {
		updates["title"] = *item.Title
		updates["slug"] = helper.RegenerateSlug(*item.Title, slug)
	}
	if item.Description != nil {
		updates["description"] = *item.Description
	}
	if item.Body != nil {
		updates["body"] = *item.Body
	}

	var article models.Article
	res := db.Model(&article).
		Clauses(clause.Returning{}).
		Where("slug = ?", slug).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrArticleNotFound
	}
	return &article, nil
}

func (r *articleRepository) IncrementVersion(db *gorm.DB, articleID uint) (*models.Article, error) {
	var article models.Article
	res := db.Model(&article).
		Clauses(clause.Returning{}).
		Where("id = ?", articleID).
		UpdateColumn("current_version", gorm.Expr("current_version + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrArticleNotFound
	}
	return &article, nil
}

// AddVersion snapshots the article's content under its current version.
func (r *articleRepository) AddVersion(db *gorm.DB, article *models.Article) (*models.ArticleVersion, error) {
	version := &models.ArticleVersion{
		ArticleID:   article.ID,
		Version:     article.CurrentVersion,
		Title:       article.Title,
		Description: article.Description,
		Body:        article.Body,
	}
	if err := db.Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (r *articleRepository) PublishDraft(db *gorm.DB, slug string, authorID uint) (*models.Article, error) {
	var article models.Article
	res := db.Model(&article).
		Clauses(clause.Returning{}).
		Where("slug = ? AND author_id = ?", slug, authorID).
		Updates(map[string]interface{}{"is_draft": false, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrArticleNotFound
	}
	return &article, nil
}

func (r *articleRepository) GetVersions(db *gorm.DB, slug string, authorID uint) ([]models.ArticleVersion, error) {
	var versions []models.ArticleVersion
	err := db.Select("article_versions.*").
		Joins("JOIN articles ON articles.id = article_versions.article_id").
		Where("articles.slug = ? AND articles.author_id = ?", slug, authorID).
		Order("article_versions.version DESC").
		Find(&versions).Error
	return versions, err
}

func (r *articleRepository) ListDrafts(db *gorm.DB, authorID uint, limit, offset int) ([]models.ArticleFeedRow, error) {
	var rows []models.ArticleFeedRow
	err := r.feed(db, authorID).
		Where("a.is_draft = ? AND a.author_id = ?", true, authorID).
		Order("a.created_at DESC, a.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *articleRepository) CountDrafts(db *gorm.DB, authorID uint) (int64, error) {
	var count int64
	err := db.Table("articles AS a").
		Where("a.is_draft = ? AND a.author_id = ?", true, authorID).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) ListByFollowings(db *gorm.DB, followerID uint, limit, offset int) ([]models.Article, error) {
	var articles []models.Article
	err := db.Table("articles AS a").
		Select("a.*").
		Scopes(published, followedBy(followerID)).
		Order("a.created_at ASC, a.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByFollowingsV2(db *gorm.DB, followerID uint, limit, offset int) ([]models.ArticleFeedRow, error) {
	var rows []models.ArticleFeedRow
	err := r.feed(db, followerID).
		Scopes(published, followedBy(followerID)).
		Order("a.created_at ASC, a.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *articleRepository) ListByFilters(db *gorm.DB, filters models.ArticleFilters, limit, offset int) ([]models.Article, error) {
	var articles []models.Article
	err := db.Table("articles AS a").
		Select("a.*").
		Scopes(published, matching(filters)).
		Order("a.created_at ASC, a.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListByFiltersV2(db *gorm.DB, viewerID uint, filters models.ArticleFilters, limit, offset int) ([]models.ArticleFeedRow, error) {
	var rows []models.ArticleFeedRow
	err := r.feed(db, viewerID).
		Scopes(published, matching(filters)).
		Order("a.created_at ASC, a.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *articleRepository) CountByFollowings(db *gorm.DB, followerID uint) (int64, error) {
	var count int64
	err := db.Table("articles AS a").
		Scopes(published, followedBy(followerID)).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) CountByFilters(db *gorm.DB, filters models.ArticleFilters) (int64, error) {
	var count int64
	err := db.Table("articles AS a").
		Scopes(published, matching(filters)).
		Count(&count).Error
	return count, err
}

func (r *articleRepository) feed(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Table("articles AS a").
		Select(feedColumns, viewerID, viewerID).
		Joins("JOIN users u ON u.id = a.author_id")
}

func published(db *gorm.DB) *gorm.DB {
	return db.Where("a.is_draft = ?", false)
}

func followedBy(followerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("a.author_id IN (SELECT following_id FROM followers WHERE follower_id = ?)", followerID)
	}
}

// matching applies the list filters; list and count share it so the two
// always agree on the predicate.
func matching(filters models.ArticleFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filters.Tag != "" {
			db = db.Where(`EXISTS (SELECT 1 FROM article_tags ft JOIN tags t ON t.id = ft.tag_id
				WHERE ft.article_id = a.id AND t.name = ?)`, filters.Tag)
		}
		if filters.Author != "" {
			db = db.Where("a.author_id IN (SELECT id FROM users WHERE username = ?)", filters.Author)
		}
		if filters.Favorited != "" {
			db = db.Where(`EXISTS (SELECT 1 FROM favorites ff JOIN users fu ON fu.id = ff.user_id
				WHERE ff.article_id = a.id AND fu.username = ?)`, filters.Favorited)
		}
		return db
	}
}
