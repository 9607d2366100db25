package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
)

// RescoreSweep periodically rescores the whole lead book so that scores
// track model changes and engagement drift.
type RescoreSweep struct {
	repos   *repository.Repositories
	scoring ScoringService
	logger  logger.Logger
	metrics *metrics.Metrics

	cron      *cron.Cron
	cancel    context.CancelFunc
	isRunning bool
	mu        sync.RWMutex

	lastStats SweepStats
}

// SweepConfig contains configuration for the rescoring sweep
type SweepConfig struct {
	IntervalMinutes int `json:"interval_minutes"`
	MaxConcurrent   int `json:"max_concurrent"`
}

// DefaultSweepConfig returns sensible defaults
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		IntervalMinutes: 60,
		MaxConcurrent:   10,
	}
}

// SweepStats describes one completed sweep cycle
type SweepStats struct {
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
	LeadsFound     int           `json:"leads_found"`
	LeadsSucceeded int           `json:"leads_succeeded"`
	LeadsFailed    int           `json:"leads_failed"`
	LeadsSkipped   int           `json:"leads_skipped"`
}

// Summary returns a one-line description of the sweep
func (s SweepStats) Summary() string {
	return fmt.Sprintf("%d leads (%d succeeded, %d failed, %d skipped) in %s",
		s.LeadsFound, s.LeadsSucceeded, s.LeadsFailed, s.LeadsSkipped,
		s.Duration.Round(time.Millisecond))
}

// NewRescoreSweep creates a sweep over the given repositories
func NewRescoreSweep(deps Deps, scoring ScoringService) *RescoreSweep {
	return &RescoreSweep{
		repos:   deps.Repos,
		scoring: scoring,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}
}

// Start schedules periodic sweeps. The first cycle runs immediately.
func (s *RescoreSweep) Start(config SweepConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("rescore sweep is already running")
	}
	if config.IntervalMinutes <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %d", config.IntervalMinutes)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %dm", config.IntervalMinutes)
	if _, err := s.cron.AddFunc(spec, func() {
		if stats, err := s.RunOnce(ctx, config); err != nil {
			s.logger.Error("Rescore sweep failed", err)
		} else {
			s.logger.Info("Rescore sweep completed", "summary", stats.Summary())
		}
	}); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Rescore sweep started",
		"interval_minutes", config.IntervalMinutes,
		"max_concurrent", config.MaxConcurrent,
	)

	go func() {
		if stats, err := s.RunOnce(ctx, config); err != nil {
			s.logger.Error("Initial rescore sweep failed", err)
		} else {
			s.logger.Info("Initial rescore sweep completed", "summary", stats.Summary())
		}
	}()

	return nil
}

// Stop cancels the in-flight cycle and halts the schedule
func (s *RescoreSweep) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("rescore sweep is not running")
	}
	cancel := s.cancel
	sched := s.cron
	s.isRunning = false
	s.mu.Unlock()

	// Release the lock before waiting: an in-flight cycle needs it to
	// record its stats.
	cancel()
	<-sched.Stop().Done()

	s.logger.Info("Rescore sweep stopped")
	return nil
}

// IsRunning returns whether the sweep schedule is active
func (s *RescoreSweep) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastStats returns the stats of the most recently completed cycle
func (s *RescoreSweep) LastStats() SweepStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStats
}

// RunOnce executes a single sweep cycle. Cancellation stops the cycle
// between leads; a lead already being scored finishes.
func (s *RescoreSweep) RunOnce(ctx context.Context, config SweepConfig) (SweepStats, error) {
	stats := SweepStats{StartTime: time.Now()}

	ids, err := s.repos.Leads.GetAllIDs()
	if err != nil {
		return stats, fmt.Errorf("failed to list leads for sweep: %w", err)
	}
	stats.LeadsFound = len(ids)

	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	semaphore := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range ids {
		if ctx.Err() != nil {
			mu.Lock()
			stats.LeadsSkipped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(leadID string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			// Cancellation while queued behind the semaphore must not
			// start more scoring work; only the lead already in flight
			// finishes.
			if ctx.Err() != nil {
				mu.Lock()
				stats.LeadsSkipped++
				mu.Unlock()
				return
			}

			_, err := s.scoring.ScoreLead(ctx, leadID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.LeadsFailed++
				s.logger.Warn("Sweep failed to score lead", "lead_id", leadID, "error", err)
			} else {
				stats.LeadsSucceeded++
			}
		}(id)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("Rescore sweep cancelled", "skipped", stats.LeadsSkipped)
		return s.finishCycle(stats), err
	}
	return s.finishCycle(stats), nil
}

func (s *RescoreSweep) finishCycle(stats SweepStats) SweepStats {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	s.metrics.SweepRuns.Inc()
	s.metrics.SweepDuration.Observe(stats.Duration.Seconds())

	s.mu.Lock()
	s.lastStats = stats
	s.mu.Unlock()

	return stats
}
