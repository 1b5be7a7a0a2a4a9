package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/payserv/payment-accounts/internal/auth"
	"github.com/payserv/payment-accounts/internal/config"
	httpserver "github.com/payserv/payment-accounts/internal/http"
	"github.com/payserv/payment-accounts/internal/spark"
	"github.com/payserv/payment-accounts/pkg/events"
	"github.com/payserv/payment-accounts/pkg/repository"
	"github.com/payserv/payment-accounts/pkg/service"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	// Connect to Redis for the account event stream
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	logger.Info("connected to redis")

	// Initialize repositories
	usersRepo := repository.NewUsersRepository(db)
	rolesRepo := repository.NewRolesRepository(db)
	credsRepo := repository.NewCredentialsRepository(db)
	filesRepo := repository.NewFilesRepository(db)

	// Initialize services
	publisher := events.NewPublisher(redisClient, cfg.EventStream)
	fileService := service.NewFileService(filesRepo, cfg.FileStorageDir, logger)
	userService := service.NewUserService(usersRepo, rolesRepo, filesRepo, fileService, publisher, logger)
	authService := service.NewAuthService(usersRepo, credsRepo, service.AccountPolicy{
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		RequireApproval:          cfg.RequireApproval,
	}, logger)
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTokenTTL)

	// Wire the external Spark service if configured
	if cfg.HasSpark() {
		if _, err := spark.NewExternalSpark(cfg.SparkConnectionString); err != nil {
			logger.Error("invalid spark configuration", "error", err)
			os.Exit(1)
		}
		logger.Info("external spark service configured")
	}

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:         logger,
		AuthService:    authService,
		UserService:    userService,
		Tokens:         tokens,
		UserStore:      usersRepo,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
