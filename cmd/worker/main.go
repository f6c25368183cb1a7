package main

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/config"
	"portfolio/internal/metrics"
	"portfolio/internal/tasks"
	"portfolio/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if !cfg.Redis.Enabled() {
		log.Fatal("worker requires REDIS_HOST")
	}
	if cfg.Revalidation.URL == "" {
		logger.Warn("REVALIDATION_URL not configured, revalidation tasks will be skipped")
	}

	redisAddr := cfg.Redis.Addr()
	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 5,
	})

	revalidateHandler := worker.NewRevalidateTaskHandler(cfg.Revalidation.URL, cfg.Revalidation.Secret, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeSiteRevalidate, revalidateHandler)

	go serveMetrics(logger)

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

// serveMetrics 在独立端口暴露 worker 的 Prometheus 指标。
func serveMetrics(logger *slog.Logger) {
	addr := os.Getenv("WORKER_METRICS_ADDR")
	if addr == "" {
		addr = ":9091"
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", slog.Any("error", err))
	}
}
