package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
)

// memoryLeadRepository is an in-memory LeadRepository used in tests and
// for running the service without a database.
type memoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[string]leadscore.LeadRecord
}

// NewMemoryLeadRepository creates an empty in-memory lead repository
func NewMemoryLeadRepository() LeadRepository {
	return &memoryLeadRepository{leads: make(map[string]leadscore.LeadRecord)}
}

func (r *memoryLeadRepository) GetByID(id string) (*leadscore.LeadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("lead %s not found", id), nil)
	}
	return &lead, nil
}

func (r *memoryLeadRepository) Upsert(lead *leadscore.LeadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *lead
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	r.leads[stored.ID] = stored
	return nil
}

func (r *memoryLeadRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return apperrors.NotFound(fmt.Sprintf("lead %s not found", id), nil)
	}
	delete(r.leads, id)
	return nil
}

func (r *memoryLeadRepository) GetAll(filters LeadFilters) ([]leadscore.LeadRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var leads []leadscore.LeadRecord
	for _, lead := range r.leads {
		if matchesFilters(lead, filters) {
			leads = append(leads, lead)
		}
	}

	sort.Slice(leads, func(i, j int) bool {
		if !leads[i].UpdatedAt.Equal(leads[j].UpdatedAt) {
			return leads[i].UpdatedAt.After(leads[j].UpdatedAt)
		}
		return leads[i].ID < leads[j].ID
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(leads) {
			return nil, nil
		}
		leads = leads[filters.Offset:]
	}
	if filters.Limit > 0 && len(leads) > filters.Limit {
		leads = leads[:filters.Limit]
	}

	return leads, nil
}

func (r *memoryLeadRepository) GetAllIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.leads))
	for id := range r.leads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func matchesFilters(lead leadscore.LeadRecord, filters LeadFilters) bool {
	if filters.Industry != "" &&
		!strings.Contains(strings.ToLower(lead.Industry), strings.ToLower(filters.Industry)) {
		return false
	}
	if filters.State != "" && !strings.EqualFold(lead.State, filters.State) {
		return false
	}
	if len(filters.CompanySize) > 0 && !containsString(filters.CompanySize, string(lead.CompanySize)) {
		return false
	}
	if len(filters.Status) > 0 && !containsString(filters.Status, string(lead.Status)) {
		return false
	}
	return true
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// memoryScoreRepository is an in-memory ScoreRepository.
type memoryScoreRepository struct {
	mu     sync.RWMutex
	byLead map[string][]leadscore.LeadScore
}

// NewMemoryScoreRepository creates an empty in-memory score repository
func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScoreRepository{byLead: make(map[string][]leadscore.LeadScore)}
}

func (r *memoryScoreRepository) Append(score *leadscore.LeadScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLead[score.LeadID] = append(r.byLead[score.LeadID], *score)
	return nil
}

func (r *memoryScoreRepository) GetByLead(leadID string) ([]leadscore.LeadScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byLead[leadID]
	out := make([]leadscore.LeadScore, len(history))
	copy(out, history)
	sortScoresNewestFirst(out)
	return out, nil
}

func (r *memoryScoreRepository) GetLatestForLead(leadID string) (*leadscore.LeadScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byLead[leadID]
	if len(history) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("no score recorded for lead %s", leadID), nil)
	}

	latest := history[0]
	for _, score := range history[1:] {
		if newerThan(score, latest) {
			latest = score
		}
	}
	return &latest, nil
}

func (r *memoryScoreRepository) DeleteByLead(leadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byLead, leadID)
	return nil
}

func (r *memoryScoreRepository) GetCurrentScores() ([]leadscore.LeadScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current []leadscore.LeadScore
	for _, history := range r.byLead {
		if len(history) == 0 {
			continue
		}
		latest := history[0]
		for _, score := range history[1:] {
			if newerThan(score, latest) {
				latest = score
			}
		}
		current = append(current, latest)
	}

	sort.Slice(current, func(i, j int) bool { return current[i].LeadID < current[j].LeadID })
	return current, nil
}

// newerThan orders by scored_at with the score ID as tie-break, matching
// the Postgres repository's ordering.
func newerThan(a, b leadscore.LeadScore) bool {
	if !a.ScoredAt.Equal(b.ScoredAt) {
		return a.ScoredAt.After(b.ScoredAt)
	}
	return a.ID.String() > b.ID.String()
}

func sortScoresNewestFirst(scores []leadscore.LeadScore) {
	sort.Slice(scores, func(i, j int) bool { return newerThan(scores[i], scores[j]) })
}

// NewMemoryRepositories creates a repository collection backed entirely
// by process memory. The transaction manager runs the callback against
// the same stores without isolation.
func NewMemoryRepositories() *Repositories {
	repos := &Repositories{
		Leads:  NewMemoryLeadRepository(),
		Scores: NewMemoryScoreRepository(),
	}
	repos.Tx = memoryTransactionManager{repos: repos}
	return repos
}

type memoryTransactionManager struct {
	repos *Repositories
}

func (tm memoryTransactionManager) WithTransaction(fn func(repos *Repositories) error) error {
	return fn(tm.repos)
}
