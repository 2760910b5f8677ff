package http

import (
	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// RouterConfig receives all router dependencies in one place, improving
// testability and keeping NewRouter's signature stable.
type RouterConfig struct {
	DB             *database.Database
	Version        string
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	Users     UserStore
	Families  FamilyStore
	Members   MemberStore
	Books     BookStore
	Streaming StreamingStore
	Goals     GoalStore
	Feed      ActivityRecorder
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	healthController := NewHealthController(cfg.DB, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})

	authController := NewAuthController(cfg.AuthService, cfg.SessionManager)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authController.Register)
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/logout", authController.Logout)
		authGroup.GET("/session", authController.Session)
		authGroup.POST("/token", authController.IssueToken)
		authGroup.POST("/password", authController.ChangePassword)
		authGroup.POST("/password-reset", authController.RequestPasswordReset)
		authGroup.PUT("/password-reset", authController.ConfirmPasswordReset)
		authGroup.POST("/verify-email", authController.VerifyEmail)
	}

	usersController := NewUsersController(cfg.Users)
	usersGroup := router.Group("/api/users")
	{
		usersGroup.GET("/me", usersController.Me)
		usersGroup.PATCH("/me", usersController.UpdateMe)
		usersGroup.GET("/me/stats", usersController.MyStats)
	}

	familiesController := NewFamiliesController(cfg.Families, cfg.Members, cfg.Feed, cfg.SessionManager)
	familyGroup := router.Group("/api/family")
	{
		familyGroup.POST("", familiesController.Create)
		familyGroup.GET("", familiesController.Get)
		familyGroup.POST("/join", familiesController.Join)
		familyGroup.POST("/leave", familiesController.Leave)
		familyGroup.GET("/members", familiesController.Members)
		familyGroup.GET("/stats", familiesController.Stats)
		familyGroup.GET("/activity", familiesController.Activity)
		familyGroup.GET("/activity/recent", familiesController.RecentActivity)

		if cfg.AuthMiddleware != nil {
			parentOnly := familyGroup.Group("", cfg.AuthMiddleware.RequireRole(entities.UserRoleParent))
			parentOnly.PATCH("", familiesController.Update)
			parentOnly.DELETE("", familiesController.Delete)
		} else {
			familyGroup.PATCH("", familiesController.Update)
			familyGroup.DELETE("", familiesController.Delete)
		}
	}

	booksController := NewBooksController(cfg.Books, cfg.Feed)
	booksGroup := router.Group("/api/books")
	if cfg.AuthMiddleware != nil {
		booksGroup.Use(cfg.AuthMiddleware.RequireFamily())
	}
	{
		booksGroup.POST("", booksController.Create)
		booksGroup.GET("", booksController.List)
		booksGroup.GET("/shelf", booksController.Shelf)
		booksGroup.GET("/stats", booksController.ShelfStats)
		booksGroup.GET("/recent", booksController.Recent)
		booksGroup.GET("/popular", booksController.Popular)
		booksGroup.GET("/:id", booksController.Get)
		booksGroup.PATCH("/:id", booksController.Update)
		booksGroup.DELETE("/:id", booksController.Delete)
		booksGroup.POST("/:id/shelf", booksController.AddToShelf)
		booksGroup.PATCH("/:id/shelf", booksController.UpdateShelf)
		booksGroup.DELETE("/:id/shelf", booksController.RemoveFromShelf)
	}

	streamingController := NewStreamingController(cfg.Streaming, cfg.Feed)
	streamingGroup := router.Group("/api/streaming")
	if cfg.AuthMiddleware != nil {
		streamingGroup.Use(cfg.AuthMiddleware.RequireFamily())
	}
	{
		streamingGroup.POST("", streamingController.Create)
		streamingGroup.GET("", streamingController.List)
		streamingGroup.GET("/watchlist", streamingController.Watchlist)
		streamingGroup.GET("/stats", streamingController.WatchStats)
		streamingGroup.GET("/recent", streamingController.Recent)
		streamingGroup.GET("/popular", streamingController.Popular)
		streamingGroup.GET("/:id", streamingController.Get)
		streamingGroup.PATCH("/:id", streamingController.Update)
		streamingGroup.DELETE("/:id", streamingController.Delete)
		streamingGroup.POST("/:id/watchlist", streamingController.AddToWatchlist)
		streamingGroup.PATCH("/:id/watchlist", streamingController.UpdateWatchlist)
		streamingGroup.DELETE("/:id/watchlist", streamingController.RemoveFromWatchlist)
		streamingGroup.POST("/:id/episodes", streamingController.AddEpisode)
		streamingGroup.GET("/:id/episodes", streamingController.ListEpisodes)
		streamingGroup.DELETE("/:id/episodes/:episodeID", streamingController.DeleteEpisode)
	}

	goalsController := NewGoalsController(cfg.Goals, cfg.Feed)
	goalsGroup := router.Group("/api/goals")
	{
		goalsGroup.PUT("", goalsController.Set)
		goalsGroup.GET("", goalsController.List)
		goalsGroup.POST("/progress", goalsController.AddProgress)
		goalsGroup.GET("/:year", goalsController.Get)
		goalsGroup.DELETE("/:year", goalsController.Delete)
	}

	return router
}
