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

	"github.com/flickit-platform/assessment-api/internal/api"
	"github.com/flickit-platform/assessment-api/internal/assessmentcore"
	"github.com/flickit-platform/assessment-api/internal/cache"
	"github.com/flickit-platform/assessment-api/internal/config"
	"github.com/flickit-platform/assessment-api/internal/health"
	"github.com/flickit-platform/assessment-api/internal/membership"
	"github.com/flickit-platform/assessment-api/internal/projection"
	"github.com/flickit-platform/assessment-api/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting assessment-api",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"assessment_core", cfg.AssessmentCore.BaseURL,
	)

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, every /api/v1 request will be rejected")
	}

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("database connected successfully")

	registry := health.NewRegistry(5 * time.Second)
	registry.Register("database", repo)

	// Assessment counters, optionally cached in Redis
	core := assessmentcore.New(cfg.AssessmentCore.BaseURL)
	var counter projection.AssessmentCounter = core
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewClient(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		counter = cache.NewCachedCounter(core, redisClient, cfg.Redis.CountTTL)
		registry.Register("redis", health.CheckerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))
		slog.Info("assessment count cache enabled", "ttl", cfg.Redis.CountTTL)
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, api.Dependencies{
		Repo:      repo,
		Projector: projection.New(repo, counter),
		Members:   membership.NewProxy(cfg.AssessmentCore.BaseURL),
		Health:    registry,
		JWTSecret: cfg.Auth.JWTSecret,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("assessment-api stopped")
}
