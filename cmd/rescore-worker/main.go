package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

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
	once := flag.Bool("once", false, "run a single sweep cycle and exit")
	flag.Parse()

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

	deps := services.Deps{
		Repos:    repository.NewRepositories(db.DB),
		Engine:   leadscore.NewEngine(registry),
		Registry: registry,
		Cache:    scoreCache,
		Logger:   appLogger,
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
	svc := services.NewServices(deps)

	sweep := services.NewRescoreSweep(deps, svc.Scoring)
	sweepConfig := services.SweepConfig{
		IntervalMinutes: cfg.SweepIntervalMinutes,
		MaxConcurrent:   cfg.SweepMaxConcurrent,
	}

	appLogger.Info("Rescoring worker starting",
		"interval_minutes", sweepConfig.IntervalMinutes,
		"max_concurrent", sweepConfig.MaxConcurrent,
		"once", *once,
	)

	if *once {
		stats, err := sweep.RunOnce(context.Background(), sweepConfig)
		if err != nil {
			appLogger.Fatal("Sweep cycle failed", err)
		}
		appLogger.Info("Sweep cycle completed", "summary", stats.Summary())
		return
	}

	if err := sweep.Start(sweepConfig); err != nil {
		appLogger.Fatal("Failed to start rescoring sweep", err)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutdown signal received, stopping sweep")
	if err := sweep.Stop(); err != nil {
		appLogger.Error("Failed to stop rescoring sweep", err)
	}
	appLogger.Info("Rescoring worker stopped")
}
