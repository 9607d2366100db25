package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
)

// leadRepository implements LeadRepository
type leadRepository struct {
	db dbExecutor
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db dbExecutor) LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, company_name, industry, company_size, city, state, zip_code,
		   shipment_volume, service_types, pain_points, current_carrier,
		   budget_min, budget_max, engagement, urgency_level, decision_timeframe,
		   budget_authority, technical_requirements, competitor_mentions,
		   status, updated_at`

// GetByID retrieves a lead by ID
func (r *leadRepository) GetByID(id string) (*leadscore.LeadRecord, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("lead %s not found", id), nil)
		}
		return nil, apperrors.Database("failed to get lead", err)
	}
	return lead, nil
}

// Upsert inserts or replaces a lead record keyed by its ID.
func (r *leadRepository) Upsert(lead *leadscore.LeadRecord) error {
	engagementJSON, err := json.Marshal(lead.Engagement)
	if err != nil {
		return apperrors.Internal("failed to marshal engagement history", err)
	}

	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			industry = EXCLUDED.industry,
			company_size = EXCLUDED.company_size,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			shipment_volume = EXCLUDED.shipment_volume,
			service_types = EXCLUDED.service_types,
			pain_points = EXCLUDED.pain_points,
			current_carrier = EXCLUDED.current_carrier,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			engagement = EXCLUDED.engagement,
			urgency_level = EXCLUDED.urgency_level,
			decision_timeframe = EXCLUDED.decision_timeframe,
			budget_authority = EXCLUDED.budget_authority,
			technical_requirements = EXCLUDED.technical_requirements,
			competitor_mentions = EXCLUDED.competitor_mentions,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.Exec(query,
		lead.ID, lead.CompanyName, lead.Industry, lead.CompanySize,
		lead.City, lead.State, lead.ZipCode,
		lead.ShipmentVolume, pq.Array(lead.ServiceTypes), pq.Array(lead.PainPoints),
		lead.CurrentCarrier, lead.BudgetRange.Min, lead.BudgetRange.Max,
		engagementJSON, lead.UrgencyLevel, lead.DecisionTimeframe,
		lead.BudgetAuthority, pq.Array(lead.TechnicalRequirements),
		pq.Array(lead.CompetitorMentions), lead.Status, lead.UpdatedAt,
	)
	if err != nil {
		return apperrors.Database("failed to upsert lead", err)
	}
	return nil
}

// Delete removes a lead by ID
func (r *leadRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return apperrors.Database("failed to delete lead", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NotFound(fmt.Sprintf("lead %s not found", id), nil)
	}
	return nil
}

// GetAll retrieves leads matching the supplied filters
func (r *leadRepository) GetAll(filters LeadFilters) ([]leadscore.LeadRecord, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`

	var conditions []string
	var args []interface{}
	argCount := 0

	if filters.Industry != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf("industry ILIKE $%d", argCount))
		args = append(args, "%"+filters.Industry+"%")
	}
	if len(filters.CompanySize) > 0 {
		argCount++
		conditions = append(conditions, fmt.Sprintf("company_size = ANY($%d)", argCount))
		args = append(args, pq.Array(filters.CompanySize))
	}
	if len(filters.Status) > 0 {
		argCount++
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argCount))
		args = append(args, pq.Array(filters.Status))
	}
	if filters.State != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf("state = $%d", argCount))
		args = append(args, filters.State)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"

	if filters.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filters.Limit)
	}
	if filters.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.Database("failed to query leads", err)
	}
	defer rows.Close()

	var leads []leadscore.LeadRecord
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperrors.Database("failed to scan lead", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database("failed to iterate leads", err)
	}

	return leads, nil
}

// GetAllIDs retrieves every lead ID, for bulk rescoring sweeps
func (r *leadRepository) GetAllIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM leads ORDER BY id`)
	if err != nil {
		return nil, apperrors.Database("failed to query lead ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Database("failed to scan lead id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database("failed to iterate lead ids", err)
	}

	return ids, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*leadscore.LeadRecord, error) {
	lead := &leadscore.LeadRecord{}
	var engagementJSON []byte
	var serviceTypes, painPoints, techReqs, competitors pq.StringArray

	err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.Industry, &lead.CompanySize,
		&lead.City, &lead.State, &lead.ZipCode,
		&lead.ShipmentVolume, &serviceTypes, &painPoints, &lead.CurrentCarrier,
		&lead.BudgetRange.Min, &lead.BudgetRange.Max, &engagementJSON,
		&lead.UrgencyLevel, &lead.DecisionTimeframe,
		&lead.BudgetAuthority, &techReqs, &competitors,
		&lead.Status, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.ServiceTypes = serviceTypes
	lead.PainPoints = painPoints
	lead.TechnicalRequirements = techReqs
	lead.CompetitorMentions = competitors

	if len(engagementJSON) > 0 {
		if err := json.Unmarshal(engagementJSON, &lead.Engagement); err != nil {
			return nil, fmt.Errorf("failed to unmarshal engagement history: %w", err)
		}
	}

	return lead, nil
}
