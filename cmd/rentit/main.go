package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kartik1014/Rentit/db"
	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/config"
	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/Kartik1014/Rentit/internal/handlers"
	"github.com/Kartik1014/Rentit/internal/logger"
	"github.com/Kartik1014/Rentit/internal/ratelimit"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/repository/memory"
	"github.com/Kartik1014/Rentit/internal/repository/postgres"
	"github.com/Kartik1014/Rentit/internal/router"
	"github.com/Kartik1014/Rentit/internal/services"
	"github.com/Kartik1014/Rentit/internal/storage"
	"github.com/Kartik1014/Rentit/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validation.RegisterGin(); err != nil {
		return err
	}

	store, err := openStore(cfg, zapLogger)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		return err
	}

	files, err := openStorage(cfg)
	if err != nil {
		return err
	}

	hub := events.NewHub(logger.WithComponent(zapLogger, "hub"))
	publishers := events.Multi{hub}

	if cfg.Webhook.DiscordURL != "" || cfg.Webhook.SlackURL != "" {
		publishers = append(publishers, events.NewWebhookPublisher(cfg.Webhook.DiscordURL, cfg.Webhook.SlackURL))
		zapLogger.Info("Booking webhooks enabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		zapLogger.Info("Kafka booking events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var limiter ratelimit.Limiter
	if cfg.AuthRateLimit.Enabled {
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		limiter = ratelimit.NewRedisLimiter(client)
		zapLogger.Info("Auth rate limiting enabled", zap.Int("limit", cfg.AuthRateLimit.Limit), zap.Duration("window", cfg.AuthRateLimit.Window))
	}

	svc := services.New(services.Deps{
		Store:     store,
		Tokens:    tokens,
		Storage:   files,
		Publisher: publishers,
		Logger:    logger.WithComponent(zapLogger, "services"),
		ResetTTL:  cfg.JWT.ResetTTL,
	})

	r := router.NewRouter(router.Deps{
		Handler: handlers.New(svc, hub, store, cfg.AllowedOrigins, zapLogger),
		Tokens:  tokens,
		Users:   store.Users(),
		Limiter: limiter,
		AuthRateLimit: ratelimit.Rule{
			Name:    "auth",
			Limit:   cfg.AuthRateLimit.Limit,
			Window:  cfg.AuthRateLimit.Window,
			Enabled: cfg.AuthRateLimit.Enabled,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         zapLogger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Starting server", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// openStore connects to Postgres when DATABASE_URL is set and falls back to
// the in-memory store otherwise.
func openStore(cfg *config.Config, zapLogger *zap.Logger) (repository.Store, error) {
	if cfg.DatabaseURL == "" {
		zapLogger.Warn("DATABASE_URL not set, using in-memory store")
		return memory.NewStore(), nil
	}

	gormDB, err := db.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.MigrateDatabase(); err != nil {
		return nil, err
	}

	zapLogger.Info("Connected to database")
	return postgres.NewStore(gormDB), nil
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.Storage.Driver == "s3" {
		return storage.NewS3Storage(storage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
	}
	return storage.NewLocalStorage(cfg.Storage.UploadDir)
}
