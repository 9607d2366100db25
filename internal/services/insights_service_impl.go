package services

import (
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
)

// insightsServiceImpl implements InsightsService
type insightsServiceImpl struct {
	repos      *repository.Repositories
	aggregator *leadscore.Aggregator
	logger     logger.Logger
}

// newInsightsService creates a new insights service implementation
func newInsightsService(deps Deps) InsightsService {
	return &insightsServiceImpl{
		repos:      deps.Repos,
		aggregator: leadscore.NewAggregator(),
		logger:     deps.Logger,
	}
}

// ComputeInsights captures a snapshot of every lead's current score and
// reduces it to portfolio analytics. Leads without a score yet are left
// out of the snapshot.
func (s *insightsServiceImpl) ComputeInsights() (leadscore.LeadInsights, error) {
	scores, err := s.repos.Scores.GetCurrentScores()
	if err != nil {
		return leadscore.LeadInsights{}, err
	}

	var snapshot []leadscore.ScoredLead
	for _, score := range scores {
		lead, err := s.repos.Leads.GetByID(score.LeadID)
		if err != nil {
			// Orphaned score (lead deleted after scoring); skip it.
			s.logger.Warn("Skipping score without lead", "lead_id", score.LeadID)
			continue
		}
		snapshot = append(snapshot, leadscore.ScoredLead{Lead: *lead, Score: score})
	}

	return s.aggregator.ComputeInsights(snapshot), nil
}
