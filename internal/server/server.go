package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stylist-backend/config"
	"stylist-backend/internal/handler"
	"stylist-backend/internal/middleware"
	"stylist-backend/internal/redis"
	"stylist-backend/internal/services"
	"stylist-backend/internal/transport/httpdto"
	"stylist-backend/pkg/database"
	"stylist-backend/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Trending     *handler.TrendingHandler
	Suggestion   *handler.SuggestionHandler
	Product      *handler.ProductHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Upload       *handler.UploadHandler
	Admin        *handler.AdminHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter, cache *redis.CacheStore) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	if limiter != nil {
		s.engine.Use(middleware.RateLimitMiddleware(limiter))
	}

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		if cache != nil {
			if err := cache.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authRequired := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/google", handlers.Auth.Google)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", authRequired, handlers.Auth.Logout)
		auth.POST("/logout-all", authRequired, handlers.Auth.LogoutAll)
		auth.GET("/sessions", authRequired, handlers.Auth.Sessions)
	}

	user := s.engine.Group("/v1/user", authRequired)
	{
		user.GET("/me", handlers.User.Me)
		user.PUT("/me", handlers.User.UpdateMe)
		user.DELETE("/me", handlers.User.DeleteMe)
		user.GET("/profile", handlers.User.GetProfile)
		user.PUT("/profile", handlers.User.UpsertProfile)
		user.GET("/photos", handlers.User.ListPhotos)
		user.DELETE("/photos/:id", handlers.User.DeletePhoto)
		user.GET("/favorites", handlers.User.ListFavorites)
		user.POST("/favorites", handlers.User.AddFavorite)
		user.DELETE("/favorites/:id", handlers.User.RemoveFavorite)
	}

	ai := s.engine.Group("/v1/ai", authRequired)
	if limiter != nil {
		ai.Use(middleware.AIRateLimitMiddleware(limiter))
	}
	{
		ai.POST("/suggestions", handlers.Suggestion.Generate)
		ai.GET("/suggestions", handlers.Suggestion.History)
		ai.GET("/suggestions/:id", handlers.Suggestion.Get)
		ai.POST("/suggestions/:id/feedback", handlers.Suggestion.AddFeedback)
	}

	products := s.engine.Group("/v1/products", authRequired)
	if limiter != nil {
		products.Use(middleware.SearchRateLimitMiddleware(limiter))
	}
	{
		products.GET("/search", handlers.Product.Search)
		products.GET("/trending", handlers.Product.Trending)
		products.GET("/:id/similar", handlers.Product.Similar)
	}

	upload := s.engine.Group("/v1/upload", authRequired)
	{
		upload.POST("/presign", handlers.Upload.Presign)
		upload.POST("/complete", handlers.Upload.Complete)
	}

	notifications := s.engine.Group("/v1/notifications", authRequired)
	{
		notifications.GET("", handlers.Notification.List)
		notifications.POST("/:id/read", handlers.Notification.MarkRead)
		notifications.POST("/device-tokens", handlers.Notification.RegisterDeviceToken)
		notifications.GET("/preferences", handlers.Notification.GetPreferences)
		notifications.PUT("/preferences", handlers.Notification.UpdatePreferences)
	}

	dashboard := s.engine.Group("/v1/dashboard", authRequired)
	{
		dashboard.GET("/overview", handlers.Dashboard.Overview)
		dashboard.GET("/metrics", handlers.Dashboard.Metrics)
		dashboard.GET("/analytics", handlers.Dashboard.Analytics)
		dashboard.GET("/weather-suggestions", handlers.Dashboard.WeatherSuggestions)
		dashboard.GET("/updates", handlers.Dashboard.Updates)
		dashboard.POST("/activity", handlers.Dashboard.TrackActivity)
	}

	// Trending reads are public; engagement endpoints require auth so
	// counters reflect real users.
	trending := s.engine.Group("/v1/trending")
	{
		trending.GET("", handlers.Trending.List)
		trending.GET("/featured", handlers.Trending.Featured)
		trending.GET("/:id", handlers.Trending.Get)
		trending.POST("/:id/like", authRequired, handlers.Trending.Like)
		trending.POST("/:id/share", authRequired, handlers.Trending.Share)
	}

	admin := s.engine.Group("/v1/admin/cron", authRequired)
	{
		admin.GET("/status", handlers.Admin.CronStatus)
		admin.POST("/trigger/:name", handlers.Admin.TriggerJob)
		admin.POST("/stop/:name", handlers.Admin.StopJob)
		admin.POST("/stop-all", handlers.Admin.StopAllJobs)
		admin.POST("/restart/:name", handlers.Admin.RestartJob)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
