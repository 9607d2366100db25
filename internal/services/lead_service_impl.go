package services

import (
	"context"
	"time"

	"github.com/deedavisinc/leadscore-pipeline/internal/cache"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
)

// leadServiceImpl implements LeadService
type leadServiceImpl struct {
	repos  *repository.Repositories
	cache  *cache.ScoreCache
	logger logger.Logger
}

// newLeadService creates a new lead service implementation
func newLeadService(deps Deps) LeadService {
	return &leadServiceImpl{
		repos:  deps.Repos,
		cache:  deps.Cache,
		logger: deps.Logger,
	}
}

// Get retrieves a lead by ID
func (s *leadServiceImpl) Get(id string) (*leadscore.LeadRecord, error) {
	return s.repos.Leads.GetByID(id)
}

// GetAll retrieves leads matching the filters
func (s *leadServiceImpl) GetAll(filters repository.LeadFilters) ([]leadscore.LeadRecord, error) {
	return s.repos.Leads.GetAll(filters)
}

// Upsert validates and stores a lead record
func (s *leadServiceImpl) Upsert(lead *leadscore.LeadRecord) error {
	if err := leadscore.ValidateLead(*lead); err != nil {
		return err
	}

	lead.UpdatedAt = time.Now()
	if err := s.repos.Leads.Upsert(lead); err != nil {
		s.logger.Error("Failed to upsert lead", err, "lead_id", lead.ID)
		return err
	}

	s.logger.Debug("Lead upserted", "lead_id", lead.ID)
	return nil
}

// Delete removes a lead together with its score history in one
// transaction, then drops its cached score
func (s *leadServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		if err := repos.Leads.Delete(id); err != nil {
			return err
		}
		return repos.Scores.DeleteByLead(id)
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Warn("Failed to invalidate cached score", "lead_id", id, "error", err)
		}
	}
	return nil
}
