package main

import (
	"context"
	"log"

	"stylist-backend/config"
	"stylist-backend/internal/domain/cronjob"
	"stylist-backend/internal/domain/notification"
	"stylist-backend/internal/domain/suggestion"
	"stylist-backend/internal/domain/trending"
	"stylist-backend/internal/domain/user"
	"stylist-backend/internal/handler"
	"stylist-backend/internal/redis"
	"stylist-backend/internal/repository"
	"stylist-backend/internal/scheduler"
	"stylist-backend/internal/server"
	"stylist-backend/internal/services"
	"stylist-backend/internal/storage"
	"stylist-backend/pkg/database"
	"stylist-backend/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	database.Connect(cfg)

	if err := database.DB.AutoMigrate(
		&user.User{},
		&user.Profile{},
		&user.Photo{},
		&user.Favorite{},
		&user.DeviceToken{},
		&user.NotificationPreferences{},
		&user.UserSession{},
		&trending.Outfit{},
		&trending.OutfitItem{},
		&cronjob.CronJob{},
		&notification.Notification{},
		&suggestion.StyleSuggestion{},
		&suggestion.ProductRecommendation{},
		&suggestion.Feedback{},
	); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	redis.Initialize(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	cache := redis.NewCacheStore(redis.GetClient())
	limiter := redis.NewRateLimiter(redis.GetClient(), redis.DefaultRateLimitConfig())

	userRepo := repository.NewUserRepository(database.DB)
	trendingRepo := repository.NewTrendingRepository(database.DB)
	suggestionRepo := repository.NewSuggestionRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)
	cronRepo := repository.NewCronJobRepository(database.DB)

	aiService := services.NewAIService(cfg)
	productService := services.NewProductService()

	var googleVerifier services.GoogleVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier = services.NewGoogleTokenVerifier(cfg.GoogleClientID)
	} else {
		l.Warnf("Google client ID not configured; Google sign-in disabled")
	}
	authService := services.NewAuthService(userRepo, googleVerifier, cfg)
	userService := services.NewUserService(userRepo)
	suggestionService := services.NewSuggestionService(suggestionRepo, userRepo, aiService, productService, l)
	notificationService := services.NewNotificationService(
		notificationRepo,
		&services.LogPushSender{Log: l},
		&services.LogEmailSender{Log: l},
		l,
	)
	trendingService := services.NewTrendingService(trendingRepo, cronRepo, aiService, notificationService, cache, l)
	dashboardService := services.NewDashboardService(userRepo, suggestionRepo, cache, aiService, l)

	var uploadService *services.UploadService
	if cfg.S3Bucket != "" {
		storageClient, err := storage.NewClient(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("Failed to initialize photo storage: %v", err)
		}
		uploadService = services.NewUploadService(storageClient, userService)
	} else {
		l.Warnf("S3 bucket not configured; photo uploads disabled")
	}

	sched, err := scheduler.New(cfg, trendingService, notificationService, userService, cronRepo, l)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Initialize(); err != nil {
		log.Fatalf("Failed to start scheduled jobs: %v", err)
	}

	handlers := &server.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Trending:     handler.NewTrendingHandler(trendingService),
		Suggestion:   handler.NewSuggestionHandler(suggestionService),
		Product:      handler.NewProductHandler(productService),
		Notification: handler.NewNotificationHandler(notificationService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Upload:       handler.NewUploadHandler(uploadService),
		Admin:        handler.NewAdminHandler(sched),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService, limiter, cache)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}

	sched.StopAll()
}
