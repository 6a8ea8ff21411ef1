package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/config"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/handlers"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/casdoor"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/memory"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/postgres"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/storage"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/utils"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
	"github.com/MaameAchiaa/Educonnect-web-application/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	casdoorConfig := casdoor.CasdoorConfig{
		Endpoint:         cfg.Casdoor.Endpoint,
		ClientID:         cfg.Casdoor.ClientID,
		ClientSecret:     cfg.Casdoor.ClientSecret,
		Certificate:      cfg.Casdoor.Certificate,
		OrganizationName: cfg.Casdoor.Organization,
		ApplicationName:  cfg.Casdoor.Application,
	}

	// Initialize repositories
	var (
		db          *gorm.DB
		redisClient *redis.Client
		repo        repositories.Repository
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repo = memory.NewRepository(memory.NewDB())
	default:
		db, err = pkg.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}

		if cfg.RedisURL != "" {
			redisClient, err = pkg.NewRedisClient(cfg)
			if err != nil {
				logger.Warn("Failed to initialize Redis, continuing without cache", "error", err)
				redisClient = nil
			}
		}

		repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
			DB:            db,
			RedisClient:   redisClient,
			CasdoorConfig: casdoorConfig,
			UserProvider:  cfg.AuthProvider,
			SessionTTL:    cfg.SessionTTL,
		})
		if err := repoManager.Initialize(); err != nil {
			log.Fatalf("Failed to initialize repositories: %v", err)
		}
		repo = repoManager.GetRepository()
	}

	// Initialize event publisher
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
	} else {
		inProcess, _ := events.NewInProcessEventPublisher(cfg.Kafka.TopicPrefix, slogLogger)
		publisher = inProcess
	}

	// Initialize file store
	var files storage.FileStore
	switch cfg.FileStore {
	case config.FileStoreMinio:
		files, err = storage.NewMinioFileStore(storage.MinioConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		}, slogLogger)
	default:
		files, err = storage.NewLocalFileStore(cfg.UploadDir)
	}
	if err != nil {
		logger.Warn("File store unavailable, submissions without files only", "driver", cfg.FileStore, "error", err)
		files = nil
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.ServiceDeps{
		Repo:      repo,
		Logger:    slogLogger,
		Validator: validator.New(),
		Publisher: publisher,
		Files:     files,
	}, services.ServiceManagerConfig{
		SessionTTL: cfg.SessionTTL,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	if cfg.SeedSampleData {
		result, err := serviceManager.Seed().SeedSampleData(context.Background())
		if err != nil {
			logger.Error("Failed to seed sample data", "error", err)
		} else {
			logger.Info("Sample data seeding finished", "created", result.Created, "failed", result.Failed)
		}
	}

	// Token resolution: built-in sessions or Casdoor-issued JWTs
	var resolver handlers.ActorResolver
	if cfg.AuthProvider == config.AuthProviderCasdoor {
		resolver = handlers.NewCasdoorTokenResolver(casdoorConfig, repo.User())
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, resolver, logger, cfg.IsProduction())

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSAllowedOrigins)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "storage", cfg.StorageDriver, "auth", cfg.AuthProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
