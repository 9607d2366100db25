package repository

import (
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
)

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	GetByID(id string) (*leadscore.LeadRecord, error)
	Upsert(lead *leadscore.LeadRecord) error
	Delete(id string) error

	// Bulk operations
	GetAll(filters LeadFilters) ([]leadscore.LeadRecord, error)
	GetAllIDs() ([]string, error)
}

// ScoreRepository defines the interface for score history access.
// History is append-only: scores are inserted and read, never updated.
type ScoreRepository interface {
	Append(score *leadscore.LeadScore) error
	GetByLead(leadID string) ([]leadscore.LeadScore, error)
	GetLatestForLead(leadID string) (*leadscore.LeadScore, error)

	// DeleteByLead drops a lead's entire history, the one mutation the
	// append-only contract allows: it rides along with lead deletion.
	DeleteByLead(leadID string) error

	// GetCurrentScores returns the latest score per lead across the
	// whole book, for portfolio aggregation.
	GetCurrentScores() ([]leadscore.LeadScore, error)
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Leads  LeadRepository
	Scores ScoreRepository
	Tx     TransactionManager
}

// LeadFilters defines filters for querying leads
type LeadFilters struct {
	Industry    string
	CompanySize []string
	Status      []string
	State       string
	Limit       int
	Offset      int
}
