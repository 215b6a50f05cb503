package services

import (
	"conduit-api/helper"
	"conduit-api/models"
	"conduit-api/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentService manages comments under an article. Drafts follow the same
// visibility rule as the article itself.
type CommentService interface {
	CreateArticleComment(db *gorm.DB, slug string, req models.CreateCommentRequest, user *models.UserDTO) (*models.CommentView, error)
	GetArticleComments(db *gorm.DB, slug string, viewer *models.UserDTO) (*models.CommentsList, error)
	DeleteArticleComment(db *gorm.DB, slug string, commentID uint, user *models.UserDTO) error
}

type commentService struct {
	articleRepo repositories.ArticleRepository
	commentRepo repositories.CommentRepository
	profiles    ProfileResolver
	logger      *zap.SugaredLogger
}

func NewCommentService(
	articleRepo repositories.ArticleRepository,
	commentRepo repositories.CommentRepository,
	profiles ProfileResolver,
	logger *zap.SugaredLogger,
) CommentService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &commentService{
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		profiles:    profiles,
		logger:      logger,
	}
}

func (s *commentService) CreateArticleComment(db *gorm.DB, slug string, req models.CreateCommentRequest, user *models.UserDTO) (*models.CommentView, error) {
	if user == nil {
		return nil, models.ErrMissingJWTToken
	}
	article, err := s.visibleArticle(db, slug, user)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Add(db, article.ID, user.ID, req.Body)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfileByUserID(db, user.ID, user)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("comment created", "slug", article.Slug, "comment_id", comment.ID, "author_id", user.ID)
	view := models.NewCommentView(comment, *profile)
	return &view, nil
}

// GetArticleComments resolves every distinct author in one batch.
func (s *commentService) GetArticleComments(db *gorm.DB, slug string, viewer *models.UserDTO) (*models.CommentsList, error) {
	article, err := s.visibleArticle(db, slug, viewer)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.List(db, article.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.commentRepo.Count(db, article.ID)
	if err != nil {
		return nil, err
	}

	list := &models.CommentsList{Comments: []models.CommentView{}, CommentsCount: count}
	if len(comments) == 0 {
		return list, nil
	}

	authorIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	profiles, err := s.profiles.GetProfilesByUserIDs(db, helper.UniqueUints(authorIDs), viewer)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	for i := range comments {
		list.Comments = append(list.Comments, models.NewCommentView(&comments[i], byID[comments[i].AuthorID]))
	}
	return list, nil
}

func (s *commentService) DeleteArticleComment(db *gorm.DB, slug string, commentID uint, user *models.UserDTO) error {
	if user == nil {
		return models.ErrMissingJWTToken
	}
	article, err := s.visibleArticle(db, slug, user)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.Get(db, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return models.ErrCommentNotFound
	}
	if comment.AuthorID != user.ID {
		return models.ErrCommentPermission
	}
	if err := s.commentRepo.Delete(db, commentID); err != nil {
		return err
	}

	s.logger.Infow("comment deleted", "slug", article.Slug, "comment_id", commentID, "author_id", user.ID)
	return nil
}

func (s *commentService) visibleArticle(db *gorm.DB, slug string, viewer *models.UserDTO) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(db, slug)
	if err != nil {
		return nil, err
	}
	if article.IsDraft && !isOwner(article, viewer) {
		return nil, models.ErrArticlePermission
	}
	return article, nil
}
