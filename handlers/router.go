package handlers

import (
	"net/http"

	"conduit-api/config"
	"conduit-api/helper"
	"conduit-api/middleware"
	"conduit-api/repositories"
	"conduit-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *zap.SugaredLogger) *gin.Engine {
	h := helper.NewHTTPHelper(logger)

	// Initialize repositories
	userRepo := repositories.NewUserRepository()
	followerRepo := repositories.NewFollowerRepository()
	articleRepo := repositories.NewArticleRepository()
	articleTagRepo := repositories.NewArticleTagRepository()
	tagRepo := repositories.NewTagRepository()
	favoriteRepo := repositories.NewFavoriteRepository()
	commentRepo := repositories.NewCommentRepository()

	// Initialize services
	profileService := services.NewProfileService(userRepo, followerRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration, logger.Named("auth"))
	articleService := services.NewArticleService(
		articleRepo, articleTagRepo, tagRepo, favoriteRepo, profileService,
		cfg.PageLimitDefault, cfg.PageLimitMax, logger.Named("articles"),
	)
	commentService := services.NewCommentService(articleRepo, commentRepo, profileService, logger.Named("comments"))
	tagService := services.NewTagService(tagRepo)

	// Initialize handlers
	authHandler := NewAuthHandler(authService, h)
	profileHandler := NewProfileHandler(profileService, h)
	articleHandler := NewArticleHandler(articleService, h)
	commentHandler := NewCommentHandler(commentService, h)
	tagHandler := NewTagHandler(tagService, h)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")), cors)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := middleware.AuthMiddleware(cfg.JWTSecret, h)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret, h)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	v1 := router.Group("/api/v1")
	v1.Use(limiter.Middleware(h), middleware.Transaction(db, h))
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/user", auth, authHandler.GetCurrentUser)
		v1.PUT("/user", auth, authHandler.UpdateCurrentUser)

		profiles := v1.Group("/profiles/:username")
		{
			profiles.GET("", optionalAuth, profileHandler.GetProfile)
			profiles.POST("/follow", auth, profileHandler.FollowUser)
			profiles.DELETE("/follow", auth, profileHandler.UnfollowUser)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", optionalAuth, articleHandler.GetArticles)
			articles.GET("/feed", auth, articleHandler.GetFeed)
			articles.POST("", auth, articleHandler.CreateArticle)
			articles.POST("/draft", auth, articleHandler.CreateDraft)
			articles.GET("/drafts", auth, articleHandler.ListDrafts)

			articles.GET("/:slug", optionalAuth, articleHandler.GetArticle)
			articles.PUT("/:slug", auth, articleHandler.UpdateArticle)
			articles.DELETE("/:slug", auth, articleHandler.DeleteArticle)
			articles.POST("/:slug/publish", auth, articleHandler.PublishDraft)
			articles.GET("/:slug/versions", auth, articleHandler.GetArticleVersions)
			articles.POST("/:slug/favorite", auth, articleHandler.FavoriteArticle)
			articles.DELETE("/:slug/favorite", auth, articleHandler.UnfavoriteArticle)

			articles.GET("/:slug/comments", optionalAuth, commentHandler.GetComments)
			articles.POST("/:slug/comments", auth, commentHandler.CreateComment)
			articles.DELETE("/:slug/comments/:id", auth, commentHandler.DeleteComment)
		}

		v1.GET("/tags", tagHandler.GetTags)
	}

	return router
}

func cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}
