package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 20
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserRequest only changes the fields that are present.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image" binding:"omitempty,url"`
}

// UserChanges is an UpdateUserRequest with the password already hashed.
type UserChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Bio          *string
	ImageURL     *string
}

type CreateArticleRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"required"`
	Body        string   `json:"body" binding:"required"`
	Tags        []string `json:"tagList" binding:"dive,min=1,max=100"`
}

func (r CreateArticleRequest) ToInput() CreateArticleInput {
	return CreateArticleInput{
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
		Tags:        r.Tags,
	}
}

type UpdateArticleRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
}

func (r UpdateArticleRequest) ToInput() UpdateArticleInput {
	return UpdateArticleInput{
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
	}
}

type ArticleListParams struct {
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Favorited string `form:"favorited"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// UserDTO is the authenticated caller as decoded from the access token.
type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile is a user's public identity seen by a particular viewer.
type Profile struct {
	UserID    uint    `json:"-"`
	Username  string  `json:"username"`
	Bio       string  `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type CreateArticleInput struct {
	Title       string
	Description string
	Body        string
	Tags        []string
}

// UpdateArticleInput only applies non-nil fields.
type UpdateArticleInput struct {
	Title       *string
	Description *string
	Body        *string
}

// ArticleFilters are combined with AND; empty fields are ignored.
type ArticleFilters struct {
	Tag       string
	Author    string
	Favorited string
}

// ArticleView is the read model returned to callers. It is rebuilt on
// every read.
type ArticleView struct {
	ID             uint      `json:"-"`
	AuthorID       uint      `json:"-"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	Tags           []string  `json:"tagList"`
	Author         Profile   `json:"author"`
	IsDraft        bool      `json:"isDraft"`
	CurrentVersion int       `json:"currentVersion"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int64     `json:"favoritesCount"`
}

// WithFavorite returns a copy of the view with the favorite fields replaced.
func (v ArticleView) WithFavorite(favorited bool, count int64) ArticleView {
	v.Favorited = favorited
	v.FavoritesCount = count
	v.Tags = append([]string(nil), v.Tags...)
	return v
}

func NewArticleView(article *Article, author Profile, tags []string, favorited bool, favoritesCount int64) ArticleView {
	if tags == nil {
		tags = []string{}
	}
	return ArticleView{
		ID:             article.ID,
		AuthorID:       article.AuthorID,
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		Tags:           tags,
		Author:         author,
		IsDraft:        article.IsDraft,
		CurrentVersion: article.CurrentVersion,
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: favoritesCount,
	}
}

type ArticlesFeed struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int64         `json:"articlesCount"`
}

// ArticleFeedRow is one fully denormalized feed row, computed in a single
// query together with the author profile and favorite metadata.
type ArticleFeedRow struct {
	ID              uint
	AuthorID        uint
	Slug            string
	Title           string
	Description     string
	Body            string
	IsDraft         bool
	CurrentVersion  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AuthorUsername  string
	AuthorBio       string
	AuthorImage     *string
	AuthorFollowing bool
	FavoritesCount  int64
	Favorited       bool
	Tags            pq.StringArray `gorm:"type:text[]"`
}

func (r ArticleFeedRow) ToView() ArticleView {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return ArticleView{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
		Tags:        tags,
		Author: Profile{
			UserID:    r.AuthorID,
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.AuthorFollowing,
		},
		IsDraft:        r.IsDraft,
		CurrentVersion: r.CurrentVersion,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Favorited:      r.Favorited,
		FavoritesCount: r.FavoritesCount,
	}
}
