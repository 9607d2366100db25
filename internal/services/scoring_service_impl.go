package services

import (
	"context"

	"github.com/deedavisinc/leadscore-pipeline/internal/cache"
	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
)

// scoringServiceImpl implements ScoringService
type scoringServiceImpl struct {
	repos    *repository.Repositories
	engine   *leadscore.Engine
	registry *leadscore.Registry
	cache    *cache.ScoreCache
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// newScoringService creates a new scoring service implementation
func newScoringService(deps Deps) ScoringService {
	return &scoringServiceImpl{
		repos:    deps.Repos,
		engine:   deps.Engine,
		registry: deps.Registry,
		cache:    deps.Cache,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// ScoreLead scores the stored lead and appends the result to its history.
// The cache refresh is best-effort: a cache failure never loses a score.
func (s *scoringServiceImpl) ScoreLead(ctx context.Context, leadID string) (*leadscore.LeadScore, error) {
	lead, err := s.repos.Leads.GetByID(leadID)
	if err != nil {
		return nil, err
	}

	score, err := s.engine.Score(*lead)
	if err != nil {
		if apperrors.IsValidation(err) {
			s.metrics.ValidationFailures.Inc()
			s.metrics.ScoringFailures.WithLabelValues("validation").Inc()
		} else {
			s.metrics.ScoringFailures.WithLabelValues("internal").Inc()
		}
		s.logger.Error("Failed to score lead", err, "lead_id", leadID)
		return nil, err
	}

	if err := s.repos.Scores.Append(score); err != nil {
		s.metrics.ScoringFailures.WithLabelValues("storage").Inc()
		s.logger.Error("Failed to store lead score", err, "lead_id", leadID)
		return nil, err
	}

	s.metrics.LeadsScored.WithLabelValues(string(score.Priority), score.ModelID).Inc()
	s.logger.Info("Lead scored",
		"lead_id", leadID,
		"overall_score", score.OverallScore,
		"priority", score.Priority,
		"model_id", score.ModelID,
	)

	if s.cache != nil {
		if err := s.cache.SetCurrentScore(ctx, score); err != nil {
			s.logger.Warn("Failed to cache lead score", "lead_id", leadID, "error", err)
		}
	}

	return score, nil
}

// GetCurrentScore returns the latest score for a lead, consulting the
// cache before the history store.
func (s *scoringServiceImpl) GetCurrentScore(ctx context.Context, leadID string) (*leadscore.LeadScore, error) {
	if s.cache != nil {
		if score, err := s.cache.GetCurrentScore(ctx, leadID); err == nil {
			s.metrics.CacheHits.Inc()
			return score, nil
		} else if err != cache.ErrCacheMiss {
			s.logger.Warn("Score cache read failed", "lead_id", leadID, "error", err)
		}
		s.metrics.CacheMisses.Inc()
	}

	score, err := s.repos.Scores.GetLatestForLead(leadID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCurrentScore(ctx, score); err != nil {
			s.logger.Warn("Failed to backfill score cache", "lead_id", leadID, "error", err)
		}
	}
	return score, nil
}

// GetScoreHistory returns all scores for a lead, newest first
func (s *scoringServiceImpl) GetScoreHistory(leadID string) ([]leadscore.LeadScore, error) {
	if _, err := s.repos.Leads.GetByID(leadID); err != nil {
		return nil, err
	}
	return s.repos.Scores.GetByLead(leadID)
}

// ActiveModels returns the active scoring models
func (s *scoringServiceImpl) ActiveModels() []leadscore.ScoringModel {
	return s.registry.ActiveModels()
}
