package services

import (
	"context"

	"github.com/deedavisinc/leadscore-pipeline/internal/cache"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
)

// Services contains all application services
type Services struct {
	Leads    LeadService
	Scoring  ScoringService
	Insights InsightsService
}

// LeadService defines the interface for lead management business logic
type LeadService interface {
	Get(id string) (*leadscore.LeadRecord, error)
	GetAll(filters repository.LeadFilters) ([]leadscore.LeadRecord, error)
	Upsert(lead *leadscore.LeadRecord) error
	Delete(ctx context.Context, id string) error
}

// ScoringService defines the interface for scoring business logic
type ScoringService interface {
	// ScoreLead runs the engine against the stored lead, appends the
	// result to the score history and refreshes the cache.
	ScoreLead(ctx context.Context, leadID string) (*leadscore.LeadScore, error)

	// GetCurrentScore returns the latest score for a lead, cache first.
	GetCurrentScore(ctx context.Context, leadID string) (*leadscore.LeadScore, error)

	GetScoreHistory(leadID string) ([]leadscore.LeadScore, error)
	ActiveModels() []leadscore.ScoringModel
}

// InsightsService defines the interface for portfolio analytics
type InsightsService interface {
	ComputeInsights() (leadscore.LeadInsights, error)
}

// Deps bundles the dependencies shared by all services. Cache may be
// nil; everything else is required.
type Deps struct {
	Repos    *repository.Repositories
	Engine   *leadscore.Engine
	Registry *leadscore.Registry
	Cache    *cache.ScoreCache
	Logger   logger.Logger
	Metrics  *metrics.Metrics
}

// NewServices creates a new Services instance with all dependencies
func NewServices(deps Deps) *Services {
	return &Services{
		Leads:    newLeadService(deps),
		Scoring:  newScoringService(deps),
		Insights: newInsightsService(deps),
	}
}
