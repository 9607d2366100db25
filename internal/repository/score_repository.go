package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
)

// scoreRepository implements ScoreRepository
type scoreRepository struct {
	db dbExecutor
}

// NewScoreRepository creates a new score history repository
func NewScoreRepository(db dbExecutor) ScoreRepository {
	return &scoreRepository{db: db}
}

const scoreColumns = `id, lead_id, model_id, overall_score, conversion_probability,
		   breakdown, priority, recommended_actions, risk_factors,
		   opportunity_value, confidence_level, scored_at`

// Append inserts a new score history entry. Entries are never updated.
func (r *scoreRepository) Append(score *leadscore.LeadScore) error {
	breakdownJSON, err := json.Marshal(score.Breakdown)
	if err != nil {
		return apperrors.Internal("failed to marshal score breakdown", err)
	}
	actionsJSON, err := json.Marshal(score.RecommendedActions)
	if err != nil {
		return apperrors.Internal("failed to marshal recommended actions", err)
	}

	query := `
		INSERT INTO lead_scores (` + scoreColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.Exec(query,
		score.ID, score.LeadID, score.ModelID,
		score.OverallScore, score.ConversionProbability,
		breakdownJSON, score.Priority, actionsJSON, pq.Array(score.RiskFactors),
		score.OpportunityValue, score.ConfidenceLevel, score.ScoredAt,
	)
	if err != nil {
		return apperrors.Database("failed to append lead score", err)
	}
	return nil
}

// GetByLead retrieves the full score history for a lead, newest first
func (r *scoreRepository) GetByLead(leadID string) ([]leadscore.LeadScore, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM lead_scores
		WHERE lead_id = $1
		ORDER BY scored_at DESC, id DESC
	`

	rows, err := r.db.Query(query, leadID)
	if err != nil {
		return nil, apperrors.Database("failed to query lead scores", err)
	}
	defer rows.Close()

	return collectScores(rows)
}

// GetLatestForLead retrieves the most recent score for a lead.
// Ties on scored_at break by id so the result is stable.
func (r *scoreRepository) GetLatestForLead(leadID string) (*leadscore.LeadScore, error) {
	query := `
		SELECT ` + scoreColumns + `
		FROM lead_scores
		WHERE lead_id = $1
		ORDER BY scored_at DESC, id DESC
		LIMIT 1
	`

	score, err := scanScore(r.db.QueryRow(query, leadID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("no score recorded for lead %s", leadID), nil)
		}
		return nil, apperrors.Database("failed to get latest lead score", err)
	}
	return score, nil
}

// DeleteByLead removes all history entries for a lead. Deleting zero
// rows is not an error; a lead may never have been scored.
func (r *scoreRepository) DeleteByLead(leadID string) error {
	_, err := r.db.Exec(`DELETE FROM lead_scores WHERE lead_id = $1`, leadID)
	if err != nil {
		return apperrors.Database("failed to delete lead scores", err)
	}
	return nil
}

// GetCurrentScores retrieves the latest score per lead across all leads
func (r *scoreRepository) GetCurrentScores() ([]leadscore.LeadScore, error) {
	query := `
		SELECT DISTINCT ON (lead_id) ` + scoreColumns + `
		FROM lead_scores
		ORDER BY lead_id, scored_at DESC, id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, apperrors.Database("failed to query current scores", err)
	}
	defer rows.Close()

	return collectScores(rows)
}

func collectScores(rows *sql.Rows) ([]leadscore.LeadScore, error) {
	var scores []leadscore.LeadScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, apperrors.Database("failed to scan lead score", err)
		}
		scores = append(scores, *score)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database("failed to iterate lead scores", err)
	}
	return scores, nil
}

func scanScore(row rowScanner) (*leadscore.LeadScore, error) {
	score := &leadscore.LeadScore{}
	var breakdownJSON, actionsJSON []byte
	var risks pq.StringArray

	err := row.Scan(
		&score.ID, &score.LeadID, &score.ModelID,
		&score.OverallScore, &score.ConversionProbability,
		&breakdownJSON, &score.Priority, &actionsJSON, &risks,
		&score.OpportunityValue, &score.ConfidenceLevel, &score.ScoredAt,
	)
	if err != nil {
		return nil, err
	}

	score.RiskFactors = risks
	if err := json.Unmarshal(breakdownJSON, &score.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
	}
	if len(actionsJSON) > 0 {
		if err := json.Unmarshal(actionsJSON, &score.RecommendedActions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommended actions: %w", err)
		}
	}

	return score, nil
}
