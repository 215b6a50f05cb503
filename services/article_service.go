package services

import (
	"conduit-api/helper"
	"conduit-api/models"
	"conduit-api/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ArticleService owns the article lifecycle and feed assembly. It holds no
// per-request state; every call runs on the session passed in.
type ArticleService interface {
	CreateNewArticle(db *gorm.DB, author *models.UserDTO, item models.CreateArticleInput) (*models.ArticleView, error)
	CreateDraft(db *gorm.DB, author *models.UserDTO, item models.CreateArticleInput) (*models.ArticleView, error)
	PublishDraft(db *gorm.DB, slug string, author *models.UserDTO) (*models.ArticleView, error)
	ListUserDrafts(db *gorm.DB, author *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error)
	GetArticleVersions(db *gorm.DB, slug string, author *models.UserDTO) ([]models.ArticleVersion, error)
	GetArticleBySlug(db *gorm.DB, slug string, viewer *models.UserDTO) (*models.ArticleView, error)
	UpdateArticleBySlug(db *gorm.DB, slug string, item models.UpdateArticleInput, user *models.UserDTO) (*models.ArticleView, error)
	DeleteArticleBySlug(db *gorm.DB, slug string, user *models.UserDTO) error
	AddArticleIntoFavorites(db *gorm.DB, slug string, user *models.UserDTO) (*models.ArticleView, error)
	RemoveArticleFromFavorites(db *gorm.DB, slug string, user *models.UserDTO) (*models.ArticleView, error)
	GetArticlesFeed(db *gorm.DB, user *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error)
	GetArticlesFeedV2(db *gorm.DB, user *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error)
	GetArticlesByFilters(db *gorm.DB, filters models.ArticleFilters, viewer *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error)
	GetArticlesByFiltersV2(db *gorm.DB, filters models.ArticleFilters, viewer *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error)
}

type articleService struct {
	articleRepo    repositories.ArticleRepository
	articleTagRepo repositories.ArticleTagRepository
	tagRepo        repositories.TagRepository
	favoriteRepo   repositories.FavoriteRepository
	profiles       ProfileResolver
	pageLimit      int
	pageLimitMax   int
	logger         *zap.SugaredLogger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	articleTagRepo repositories.ArticleTagRepository,
	tagRepo repositories.TagRepository,
	favoriteRepo repositories.FavoriteRepository,
	profiles ProfileResolver,
	pageLimit, pageLimitMax int,
	logger *zap.SugaredLogger,
) ArticleService {
	if pageLimit <= 0 {
		pageLimit = models.DefaultPageLimit
	}
	if pageLimitMax < pageLimit {
		pageLimitMax = pageLimit
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &articleService{
		articleRepo:    articleRepo,
		articleTagRepo: articleTagRepo,
		tagRepo:        tagRepo,
		favoriteRepo:   favoriteRepo,
		profiles:       profiles,
		pageLimit:      pageLimit,
		pageLimitMax:   pageLimitMax,
		logger:         logger,
	}
}

func (s *articleService) CreateNewArticle(db *gorm.DB, author *models.UserDTO, item models.CreateArticleInput) (*models.ArticleView, error) {
	return s.create(db, author, item, false)
}

func (s *articleService) CreateDraft(db *gorm.DB, author *models.UserDTO, item models.CreateArticleInput) (*models.ArticleView, error) {
	return s.create(db, author, item, true)
}

func (s *articleService) create(db *gorm.DB, author *models.UserDTO, item models.CreateArticleInput, draft bool) (*models.ArticleView, error) {
	if author == nil {
		return nil, models.ErrMissingJWTToken
	}

	var (
		article *models.Article
		err     error
	)
	if draft {
		article, err = s.articleRepo.AddDraft(db, author.ID, item)
	} else {
		article, err = s.articleRepo.Add(db, author.ID, item)
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfileByUserID(db, author.ID, author)
	if err != nil {
		return nil, err
	}

	tags, err := s.attachTags(db, article.ID, item.Tags)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("article created", "slug", article.Slug, "author_id", author.ID, "draft", draft)
	view := models.NewArticleView(article, *profile, tags, false, 0)
	return &view, nil
}

// attachTags creates missing tags and links all of them to the article.
// It returns the deduplicated names in input order.
func (s *articleService) attachTags(db *gorm.DB, articleID uint, names []string) ([]string, error) {
	names = helper.UniqueStrings(names)
	if len(names) == 0 {
		return []string{}, nil
	}

	tags, err := s.tagRepo.CreateTags(db, names)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	if err := s.articleTagRepo.LinkTags(db, articleID, ids); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *articleService) PublishDraft(db *gorm.DB, slug string, author *models.UserDTO) (*models.ArticleView, error) {
	article, err := s.ownedArticle(db, slug, author)
	if err != nil {
		return nil, err
	}
	if !article.IsDraft {
		return nil, models.ErrArticleAlreadyPublished
	}

	published, err := s.articleRepo.PublishDraft(db, article.Slug, author.ID)
	if err != nil {
		return nil, err
	}
	if published.AuthorID != author.ID {
		return nil, models.ErrArticlePermission
	}

	s.logger.Infow("article published", "slug", published.Slug, "author_id", author.ID)
	return s.assembleView(db, published, author)
}

func (s *articleService) ListUserDrafts(db *gorm.DB, author *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error) {
	if author == nil {
		return nil, models.ErrMissingJWTToken
	}
	limit, offset = s.page(limit, offset)

	rows, err := s.articleRepo.ListDrafts(db, author.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.articleRepo.CountDrafts(db, author.ID)
	if err != nil {
		return nil, err
	}
	return feedFromRows(rows, count), nil
}

func (s *articleService) GetArticleVersions(db *gorm.DB, slug string, author *models.UserDTO) ([]models.ArticleVersion, error) {
	article, err := s.ownedArticle(db, slug, author)
	if err != nil {
		return nil, err
	}

	versions, err := s.articleRepo.GetVersions(db, article.Slug, author.ID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		// the owner-scoped query found nothing for an article we just read
		return nil, models.ErrArticlePermission
	}
	return versions, nil
}

func (s *articleService) GetArticleBySlug(db *gorm.DB, slug string, viewer *models.UserDTO) (*models.ArticleView, error) {
	article, err := s.articleRepo.GetBySlug(db, slug)
	if err != nil {
		return nil, err
	}
	if article.IsDraft && !isOwner(article, viewer) {
		return nil, models.ErrArticlePermission
	}
	return s.assembleView(db, article, viewer)
}

func (s *articleService) UpdateArticleBySlug(db *gorm.DB, slug string, item models.UpdateArticleInput, user *models.UserDTO) (*models.ArticleView, error) {
	article, err := s.ownedArticle(db, slug, user)
	if err != nil {
		return nil, err
	}

	updated, err := s.articleRepo.UpdateBySlug(db, article.Slug, item)
	if err != nil {
		return nil, err
	}
	bumped, err := s.articleRepo.IncrementVersion(db, updated.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.articleRepo.AddVersion(db, bumped); err != nil {
		return nil, err
	}

	return s.assembleView(db, bumped, user)
}

func (s *articleService) DeleteArticleBySlug(db *gorm.DB, slug string, user *models.UserDTO) error {
	article, err := s.ownedArticle(db, slug, user)
	if err != nil {
		return err
	}
	if err := s.articleRepo.DeleteBySlug(db, article.Slug); err != nil {
		return err
	}

	s.logger.Infow("article deleted", "slug", article.Slug, "author_id", user.ID)
	return nil
}

func (s *articleService) AddArticleIntoFavorites(db *gorm.DB, slug string, user *models.UserDTO) (*models.ArticleView, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	view, err := s.GetArticleBySlug(db, slug, user)
	if err != nil {
		return nil, err
	}
	if view.Favorited {
		return nil, models.ErrArticleAlreadyFavorited
	}

	if err := s.favoriteRepo.Add(db, view.ID, user.ID); err != nil {
		return nil, err
	}
	count, err := s.favoriteRepo.Count(db, view.ID)
	if err != nil {
		return nil, err
	}

	updated := view.WithFavorite(true, count)
	return &updated, nil
}

func (s *articleService) RemoveArticleFromFavorites(db *gorm.DB, slug string, user *models.UserDTO) (*models.ArticleView, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	view, err := s.GetArticleBySlug(db, slug, user)
	if err != nil {
		return nil, err
	}
	if !view.Favorited {
		return nil, models.ErrArticleNotFavorited
	}

	if err := s.favoriteRepo.Remove(db, view.ID, user.ID); err != nil {
		return nil, err
	}
	count, err := s.favoriteRepo.Count(db, view.ID)
	if err != nil {
		return nil, err
	}

	updated := view.WithFavorite(false, count)
	return &updated, nil
}

// GetArticlesFeed assembles the following feed from base rows plus batched
// profile, tag and favorite lookups.
func (s *articleService) GetArticlesFeed(db *gorm.DB, user *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	limit, offset = s.page(limit, offset)

	articles, err := s.articleRepo.ListByFollowings(db, user.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.articleRepo.CountByFollowings(db, user.ID)
	if err != nil {
		return nil, err
	}
	return s.assembleFeed(db, articles, count, user)
}

// GetArticlesFeedV2 reads the following feed as denormalized rows in one query.
func (s *articleService) GetArticlesFeedV2(db *gorm.DB, user *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	limit, offset = s.page(limit, offset)

	rows, err := s.articleRepo.ListByFollowingsV2(db, user.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.articleRepo.CountByFollowings(db, user.ID)
	if err != nil {
		return nil, err
	}
	return feedFromRows(rows, count), nil
}

func (s *articleService) GetArticlesByFilters(db *gorm.DB, filters models.ArticleFilters, viewer *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error) {
	limit, offset = s.page(limit, offset)

	articles, err := s.articleRepo.ListByFilters(db, filters, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.articleRepo.CountByFilters(db, filters)
	if err != nil {
		return nil, err
	}
	return s.assembleFeed(db, articles, count, viewer)
}

func (s *articleService) GetArticlesByFiltersV2(db *gorm.DB, filters models.ArticleFilters, viewer *models.UserDTO, limit, offset int) (*models.ArticlesFeed, error) {
	limit, offset = s.page(limit, offset)

	rows, err := s.articleRepo.ListByFiltersV2(db, viewerID(viewer), filters, limit, offset)
	if err != nil {
		return nil, err
	}
	count, err := s.articleRepo.CountByFilters(db, filters)
	if err != nil {
		return nil, err
	}
	return feedFromRows(rows, count), nil
}

// ownedArticle loads the article and rejects callers other than its author.
func (s *articleService) ownedArticle(db *gorm.DB, slug string, user *models.UserDTO) (*models.Article, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	article, err := s.articleRepo.GetBySlug(db, slug)
	if err != nil {
		return nil, err
	}
	if !isOwner(article, user) {
		return nil, models.ErrArticlePermission
	}
	return article, nil
}

func (s *articleService) assembleView(db *gorm.DB, article *models.Article, viewer *models.UserDTO) (*models.ArticleView, error) {
	profile, err := s.profiles.GetProfileByUserID(db, article.AuthorID, viewer)
	if err != nil {
		return nil, err
	}
	tags, err := s.articleTagRepo.TagsForArticle(db, article.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.favoriteRepo.Count(db, article.ID)
	if err != nil {
		return nil, err
	}

	favorited := false
	if viewer != nil {
		favorited, err = s.favoriteRepo.Exists(db, viewer.ID, article.ID)
		if err != nil {
			return nil, err
		}
	}

	view := models.NewArticleView(article, *profile, tags, favorited, count)
	return &view, nil
}

// assembleFeed resolves each distinct author once for the whole page.
func (s *articleService) assembleFeed(db *gorm.DB, articles []models.Article, count int64, viewer *models.UserDTO) (*models.ArticlesFeed, error) {
	feed := &models.ArticlesFeed{Articles: []models.ArticleView{}, ArticlesCount: count}
	if len(articles) == 0 {
		return feed, nil
	}

	articleIDs := make([]uint, 0, len(articles))
	authorIDs := make([]uint, 0, len(articles))
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
		authorIDs = append(authorIDs, a.AuthorID)
	}
	authorIDs = helper.UniqueUints(authorIDs)

	profiles, err := s.profiles.GetProfilesByUserIDs(db, authorIDs, viewer)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		byAuthor[p.UserID] = p
	}

	tags, err := s.articleTagRepo.TagsForArticles(db, articleIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.favoriteRepo.CountForArticles(db, articleIDs)
	if err != nil {
		return nil, err
	}
	favorited := map[uint]bool{}
	if viewer != nil {
		favorited, err = s.favoriteRepo.FavoritedAmong(db, viewer.ID, articleIDs)
		if err != nil {
			return nil, err
		}
	}

	for i := range articles {
		a := &articles[i]
		profile, ok := byAuthor[a.AuthorID]
		if !ok {
			return nil, models.ErrProfileNotFound
		}
		feed.Articles = append(feed.Articles, models.NewArticleView(a, profile, tags[a.ID], favorited[a.ID], counts[a.ID]))
	}
	return feed, nil
}

// page applies the default limit and caps it at the configured maximum.
func (s *articleService) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.pageLimit
	}
	if limit > s.pageLimitMax {
		limit = s.pageLimitMax
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func feedFromRows(rows []models.ArticleFeedRow, count int64) *models.ArticlesFeed {
	views := make([]models.ArticleView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.ToView())
	}
	return &models.ArticlesFeed{Articles: views, ArticlesCount: count}
}

func isOwner(article *models.Article, user *models.UserDTO) bool {
	return user != nil && article.AuthorID == user.ID
}

func viewerID(viewer *models.UserDTO) uint {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}
