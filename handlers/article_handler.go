package handlers

import (
	"conduit-api/helper"
	"conduit-api/middleware"
	"conduit-api/models"
	"conduit-api/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	article, err := h.articleService.CreateNewArticle(middleware.DB(c), middleware.CurrentUser(c), req.ToInput())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article created", gin.H{"article": article})
}

func (h *ArticleHandler) CreateDraft(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	article, err := h.articleService.CreateDraft(middleware.DB(c), middleware.CurrentUser(c), req.ToInput())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Draft created", gin.H{"article": article})
}

func (h *ArticleHandler) PublishDraft(c *gin.Context) {
	article, err := h.articleService.PublishDraft(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article published", gin.H{"article": article})
}

func (h *ArticleHandler) ListDrafts(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	feed, err := h.articleService.ListUserDrafts(middleware.DB(c), middleware.CurrentUser(c), params.Limit, params.Offset)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", feed)
}

func (h *ArticleHandler) GetArticleVersions(c *gin.Context) {
	versions, err := h.articleService.GetArticleVersions(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"versions": versions})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleService.GetArticleBySlug(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"article": article})
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	article, err := h.articleService.UpdateArticleBySlug(middleware.DB(c), c.Param("slug"), req.ToInput(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated", gin.H{"article": article})
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.DeleteArticleBySlug(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c)); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendNoContent(c)
}

func (h *ArticleHandler) FavoriteArticle(c *gin.Context) {
	article, err := h.articleService.AddArticleIntoFavorites(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article favorited", gin.H{"article": article})
}

func (h *ArticleHandler) UnfavoriteArticle(c *gin.Context) {
	article, err := h.articleService.RemoveArticleFromFavorites(middleware.DB(c), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article unfavorited", gin.H{"article": article})
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	filters := models.ArticleFilters{
		Tag:       params.Tag,
		Author:    params.Author,
		Favorited: params.Favorited,
	}
	feed, err := h.articleService.GetArticlesByFiltersV2(middleware.DB(c), filters, middleware.CurrentUser(c), params.Limit, params.Offset)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", feed)
}

func (h *ArticleHandler) GetFeed(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBindingError(c, err)
		return
	}

	feed, err := h.articleService.GetArticlesFeedV2(middleware.DB(c), middleware.CurrentUser(c), params.Limit, params.Offset)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", feed)
}
