package server

import (
	"net/http"
	"time"

	"dishfeed/internal/auth"
	"dishfeed/internal/feed"
	"dishfeed/internal/location"
	"dishfeed/internal/settings"
	"dishfeed/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes builds the API router
func (s *Server) RegisterRoutes() http.Handler {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(auth.ActorMiddleware(s.auth, s.sessionMgr))

	r.GET("/health", s.healthHandler)

	images := storage.NewResolver(s.storage)

	feedHandler := feed.NewHandler(s.feed, s.location, images)
	dishes := r.Group("/dishes")
	{
		dishes.GET("", feedHandler.List)
		dishes.GET("/categories", feedHandler.Categories)
		dishes.POST("", feedHandler.Create)
		dishes.GET("/:id", feedHandler.Get)
		dishes.PATCH("/:id", feedHandler.Update)
		dishes.POST("/:id/like", feedHandler.ToggleLike)
		dishes.POST("/:id/comments", feedHandler.AddComment)
	}

	authHandler := auth.NewHandler(s.auth, s.sessionMgr, s.cfg.SessionMaxAge, s.cfg.IsProduction())
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", authHandler.Me)
		authGroup.PATCH("/profile", auth.RequireUser(), authHandler.UpdateProfile)
	}

	locationHandler := location.NewHandler(s.location)
	r.GET("/location", locationHandler.Get)
	r.PUT("/location", locationHandler.Update)
	r.DELETE("/location", locationHandler.Deny)

	settingsHandler := settings.NewHandler(s.settings)
	r.GET("/settings", settingsHandler.Get)
	r.PATCH("/settings", settingsHandler.Update)
	r.POST("/settings/theme/toggle", settingsHandler.ToggleTheme)
	r.GET("/profile/avatar", settingsHandler.GetAvatar)
	r.PUT("/profile/avatar", settingsHandler.PutAvatar)

	uploadHandler := storage.NewHandler(s.storage)
	r.POST("/uploads/image-url", uploadHandler.UploadURL)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	response := gin.H{
		"status":  "up",
		"service": "dishfeed",
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			response["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["redis"] = gin.H{"status": "up"}
		}
	}

	if s.storage != nil {
		if err := s.storage.Health(ctx); err != nil {
			response["storage"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["storage"] = gin.H{"status": "up"}
		}
	}

	response["kafka"] = gin.H{"enabled": s.producer != nil}

	c.JSON(http.StatusOK, response)
}
