package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"portfolio/internal/api"
	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/storage"
	"portfolio/internal/tasks"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.TestMode() {
		logger.Warn("APP_ENV=test: dashboard authentication is bypassed, never run this in production")
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("close database failed", slog.Any("error", err))
		}
	}()
	logger.Info("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database migrated")

	deps := api.Dependencies{
		Config:     cfg,
		DB:         db,
		Logger:     logger,
		Dispatcher: tasks.NoopDispatcher{},
	}

	var sessionStore auth.Store
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", slog.Any("error", err))
			}
		}()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("ping redis: %v", err)
		}
		sessionStore = auth.NewRedisStore(redisClient)

		if cfg.Revalidation.URL != "" {
			asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
			defer func() {
				if err := asynqClient.Close(); err != nil {
					logger.Error("close asynq client failed", slog.Any("error", err))
				}
			}()
			deps.Dispatcher = tasks.NewAsynqDispatcher(asynqClient)
			logger.Info("revalidation dispatcher enabled", slog.String("redis_addr", cfg.Redis.Addr()))
		}
	} else {
		sessionStore = auth.NewMemoryStore()
		logger.Warn("redis not configured, sessions and login limits are kept in memory")
	}

	authService, err := auth.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, sessionStore)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}
	deps.AuthService = authService
	deps.LoginGuard = auth.NewLoginGuard(sessionStore, cfg.Auth.LoginRateLimit, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL)

	if cfg.MinIO.HasCredentials() {
		storageClient, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		deps.Storage = storageClient
		logger.Info("storage client ready", slog.String("bucket", cfg.Resume.Bucket))
	} else {
		logger.Warn("storage credentials not configured, resume endpoints will fail")
	}

	if cfg.Clamd.Addr != "" {
		deps.Scanner = storage.NewClamdScanner(cfg.Clamd.Addr)
	}

	var handler http.Handler = api.NewRouter(deps)
	if len(cfg.API.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.API.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(handler)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}
