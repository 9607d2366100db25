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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/deedavisinc/leadscore-pipeline/internal/api"
	"github.com/deedavisinc/leadscore-pipeline/internal/cache"
	"github.com/deedavisinc/leadscore-pipeline/internal/database"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
	"github.com/deedavisinc/leadscore-pipeline/internal/services"
	"github.com/deedavisinc/leadscore-pipeline/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()

	appLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; the scoring path works without it.
	var scoreCache *cache.ScoreCache
	if cfg.HasRedis() {
		scoreCache, err = cache.NewScoreCache(cfg.RedisURL)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without score cache", "error", err)
			scoreCache = nil
		} else {
			defer scoreCache.Close()
		}
	}

	registry, err := leadscore.NewRegistry(leadscore.DefaultModels())
	if err != nil {
		appLogger.Fatal("Invalid scoring model configuration", err)
	}

	promRegistry := prometheus.NewRegistry()

	deps := services.Deps{
		Repos:    repository.NewRepositories(db.DB),
		Engine:   leadscore.NewEngine(registry),
		Registry: registry,
		Cache:    scoreCache,
		Logger:   appLogger,
		Metrics:  metrics.New(promRegistry),
	}
	svc := services.NewServices(deps)

	sweep := services.NewRescoreSweep(deps, svc.Scoring)
	sweepConfig := services.SweepConfig{
		IntervalMinutes: cfg.SweepIntervalMinutes,
		MaxConcurrent:   cfg.SweepMaxConcurrent,
	}
	if cfg.SweepEnabled {
		if err := sweep.Start(sweepConfig); err != nil {
			appLogger.Fatal("Failed to start rescoring sweep", err)
		}
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		appLogger.Fatal("Invalid trusted proxy configuration", err)
	}

	api.SetupRoutes(r, api.RouterDeps{
		Services:    svc,
		Sweep:       sweep,
		SweepConfig: sweepConfig,
		Config:      cfg,
		Logger:      appLogger,
		Metrics:     deps.Metrics,
		Registry:    promRegistry,
		DB:          db,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutdown signal received")

	if cfg.SweepEnabled {
		if err := sweep.Stop(); err != nil {
			appLogger.Error("Failed to stop rescoring sweep", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", err)
	}

	appLogger.Info("Server stopped")
}
