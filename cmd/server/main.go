package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhvt/hosodoc-backend/config"
	"github.com/minhvt/hosodoc-backend/internal/app/controller"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/app/service"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/minhvt/hosodoc-backend/internal/events"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
	"github.com/minhvt/hosodoc-backend/internal/router"
	"github.com/minhvt/hosodoc-backend/internal/scheduler"
	"github.com/minhvt/hosodoc-backend/internal/storage"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/minhvt/hosodoc-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // production dùng "json"
		EnableColor: true,
	})

	logger.Info("Starting HOSODOC Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed fixed admin account
	if err := db.SeedAdmin(&cfg.Auth); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (token blacklist); không bắt buộc để chạy server
	redisAvailable := true
	if err := redis.Init(&cfg.Redis); err != nil {
		redisAvailable = false
		logger.Warn("Redis unavailable, logout revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Events hub
	hub := events.NewHub()
	go hub.Run()

	// Count cache + sweeper
	countCache := cache.NewCountCache()
	sweeper := scheduler.NewCacheSweeper(countCache)
	if err := sweeper.Start(); err != nil {
		logger.Warn("Failed to start cache sweeper", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer sweeper.Stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB(), countCache, cfg.Records.CountCacheTTL)
	accountRepo := repository.NewBusinessAccountRepository(db.GetDB())
	txRepo := repository.NewDocumentTransactionRepository(db.GetDB())

	// Initialize services
	var blacklist service.TokenBlacklister
	var blacklistCheck middleware.BlacklistChecker
	if redisAvailable {
		blacklist = redis.BlacklistToken
		blacklistCheck = redis.IsTokenBlacklisted
	}

	authService := service.NewAuthService(
		userRepo,
		cfg.Auth.EmployeePassword,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		blacklist,
	)
	businessService := service.NewBusinessService(
		db.GetDB(), businessRepo, accountRepo, txRepo, hub, cfg.Records.DeletePassword)
	transactionService := service.NewTransactionService(
		txRepo, businessRepo, hub, cfg.Records.DeletePassword)
	exportService := service.NewExportService(txRepo, businessRepo)

	// S3 storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(businessService, transactionService)
	transactionController := controller.NewTransactionController(transactionService, exportService)
	uploadController := controller.NewUploadController(s3Storage)
	eventsController := controller.NewEventsController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklistCheck)

	// Setup router
	r := router.NewRouter(
		authController,
		businessController,
		transactionController,
		uploadController,
		eventsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
