package leadscore

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Engine combines model selection, the component scorers, and the derived
// outputs (tier, conversion probability, opportunity value, actions, risk
// factors) into a LeadScore. It holds no mutable state beyond the
// read-only registry, so concurrent Score calls need no coordination;
// persistence of results belongs to the caller.
type Engine struct {
	registry *Registry
	now      func() time.Time
}

// NewEngine creates a scoring engine backed by the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		now:      time.Now,
	}
}

var sizeMultiplier = map[CompanySize]float64{
	SizeSmall:      0.8,
	SizeMedium:     1.0,
	SizeLarge:      1.3,
	SizeEnterprise: 1.6,
}

// Score produces a fresh LeadScore for the lead. It fails fast with a
// VALIDATION_ERROR when the record violates a structural invariant and
// never partially scores; missing optional fields are substituted with
// neutral defaults instead of erroring.
func (e *Engine) Score(lead LeadRecord) (*LeadScore, error) {
	if err := ValidateLead(lead); err != nil {
		return nil, err
	}
	lead = ApplyDefaults(lead)

	model := e.registry.SelectModel(lead)
	breakdown := ComputeBreakdown(lead)
	overall := combineScores(breakdown, model.Weights)
	priority := priorityFor(overall, model.Thresholds)
	probability := conversionProbability(overall, breakdown.Timing, lead)

	score := &LeadScore{
		ID:                    uuid.New(),
		LeadID:                lead.ID,
		ModelID:               model.ID,
		OverallScore:          overall,
		ConversionProbability: probability,
		Breakdown:             breakdown,
		Priority:              priority,
		RecommendedActions:    recommendedActions(overall, priority, lead),
		RiskFactors:           riskFactors(lead),
		OpportunityValue:      opportunityValue(lead, probability),
		ConfidenceLevel:       int(math.Round(model.Accuracy.F1 * 100)),
		ScoredAt:              e.now(),
	}
	return score, nil
}

// combineScores folds the sub-scores through the model weights,
// rounded and clamped to [0,100].
func combineScores(b ScoreBreakdown, w ScoreWeights) int {
	weighted := float64(b.Demographic)*w.Demographic +
		float64(b.Behavioral)*w.Behavioral +
		float64(b.Budget)*w.Budget +
		float64(b.Timing)*w.Timing +
		float64(b.Competitive)*w.Competitive
	return clampScore(weighted)
}

// priorityFor maps the overall score onto the model's tier boundaries.
// Boundaries are inclusive: a score exactly at thresholdA is tier A.
func priorityFor(overall int, th ScoreThresholds) PriorityLevel {
	switch {
	case overall >= th.PriorityA:
		return PriorityA
	case overall >= th.PriorityB:
		return PriorityB
	case overall >= th.PriorityC:
		return PriorityC
	default:
		return PriorityD
	}
}

// conversionProbability is a bounded heuristic, not a calibrated model:
// mostly the overall score, leavened with timing, with a fatigue penalty
// for over-contacted leads. Always within [5,95].
func conversionProbability(overall, timingScore int, lead LeadRecord) int {
	p := float64(overall)*0.8 + float64(timingScore)*0.2
	if lead.Engagement.ContactCount > 5 {
		p -= 5
	}
	rounded := int(math.Round(p))
	if rounded < 5 {
		return 5
	}
	if rounded > 95 {
		return 95
	}
	return rounded
}

// opportunityValue estimates the monetary value of the lead if converted.
func opportunityValue(lead LeadRecord, probability int) float64 {
	multiplier, ok := sizeMultiplier[lead.CompanySize]
	if !ok {
		multiplier = sizeMultiplier[SizeMedium]
	}
	value := lead.BudgetRange.Average() * (float64(probability) / 100) * multiplier
	if value < 0 {
		return 0
	}
	return value
}

// recommendedActions returns the ranked next steps for a lead's tier.
// Tier D gets no tier actions; any under-contacted lead also gets a
// generic follow-up.
func recommendedActions(overall int, priority PriorityLevel, lead LeadRecord) []RecommendedAction {
	var actions []RecommendedAction

	switch priority {
	case PriorityA:
		actions = append(actions,
			RecommendedAction{
				Action:        "Call immediately to qualify decision process",
				Urgency:       ActionImmediate,
				ExpectedValue: float64(overall) * 100,
				Timeframe:     "24 hours",
			},
			RecommendedAction{
				Action:        "Send tailored service proposal",
				Urgency:       ActionHigh,
				ExpectedValue: float64(overall) * 50,
				Timeframe:     "48 hours",
			})
	case PriorityB:
		actions = append(actions,
			RecommendedAction{
				Action:        "Send personalized email with relevant case studies",
				Urgency:       ActionHigh,
				ExpectedValue: float64(overall) * 30,
				Timeframe:     "48 hours",
			},
			RecommendedAction{
				Action:        "Schedule discovery call",
				Urgency:       ActionMedium,
				ExpectedValue: float64(overall) * 20,
				Timeframe:     "1 week",
			})
	case PriorityC:
		actions = append(actions,
			RecommendedAction{
				Action:        "Add to nurture campaign",
				Urgency:       ActionMedium,
				ExpectedValue: float64(overall) * 15,
				Timeframe:     "2 weeks",
			})
	}

	if lead.Engagement.ContactCount < 3 {
		actions = append(actions, RecommendedAction{
			Action:        "Schedule follow-up outreach to build engagement",
			Urgency:       ActionLow,
			ExpectedValue: float64(overall) * 10,
			Timeframe:     "1 week",
		})
	}

	return actions
}

// Risk factor messages, one per rule.
const (
	riskLongTimeframe    = "Long decision timeframe (6+ months)"
	riskBudgetTooLow     = "Budget below minimum viable contract"
	riskStalledNurture   = "Extended nurturing without qualification"
	riskManyCompetitors  = "Multiple competitors under evaluation"
	riskUnresponsiveLead = "Low response rate to outreach"
)

// riskFactors flags only the rules that hold for this lead.
func riskFactors(lead LeadRecord) []string {
	var risks []string

	if lead.DecisionTimeframe == TimeframeSixPlus {
		risks = append(risks, riskLongTimeframe)
	}
	if lead.BudgetRange.Max < minimumContract {
		risks = append(risks, riskBudgetTooLow)
	}
	if lead.Status == StatusNurturing && lead.Engagement.ContactCount > 10 {
		risks = append(risks, riskStalledNurture)
	}
	if len(lead.CompetitorMentions) > 3 {
		risks = append(risks, riskManyCompetitors)
	}
	if lead.Engagement.ResponseRate < 10 {
		risks = append(risks, riskUnresponsiveLead)
	}

	return risks
}
