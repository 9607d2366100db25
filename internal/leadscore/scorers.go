package leadscore

import (
	"math"
	"strings"
)

// Component scorers. Each is a pure function over a defaulted LeadRecord:
// base score 50, additive/subtractive bonuses, clamped to [0,100].
// The numeric constants are the scoring contract; changing them changes
// which leads sales reps are told to call first.

// priorityRegions are states with dense freight corridors where the sales
// team has local coverage.
var priorityRegions = []string{"CA", "TX", "IL", "NJ", "GA", "FL"}

// highDemandIndustries match by case-insensitive substring so that
// free-text values like "Automotive Parts Manufacturing" still hit.
var highDemandIndustries = []string{
	"manufacturing", "automotive", "retail", "pharmaceutical", "food", "construction",
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// DemographicScore rates firmographic fit: company size, region, industry.
func DemographicScore(lead LeadRecord) int {
	score := 50.0

	switch lead.CompanySize {
	case SizeLarge, SizeEnterprise:
		score += 15
	case SizeMedium:
		score += 10
	}

	for _, region := range priorityRegions {
		if strings.EqualFold(lead.State, region) {
			score += 10
			break
		}
	}

	for _, industry := range highDemandIndustries {
		if containsFold(lead.Industry, industry) {
			score += 10
			break
		}
	}

	return clampScore(score)
}

// BehavioralScore rates observed engagement: opens, clicks, visits,
// contact cadence, response rate, document downloads.
func BehavioralScore(lead LeadRecord) int {
	score := 50.0
	eng := lead.Engagement

	if eng.EmailsOpened > 0 {
		score += 20
	}
	if eng.LinksClicked > 0 {
		score += 15
	}
	if eng.WebsiteVisits > 0 {
		score += 10
	}

	// 3-5 touches is the sweet spot; beyond that contact fatigue sets in.
	if eng.ContactCount >= 3 && eng.ContactCount <= 5 {
		score += 25
	} else if eng.ContactCount > 5 {
		score += 15
	}

	score += eng.ResponseRate * 0.3

	if len(eng.DocumentsDownloaded) > 0 {
		score += 15
	}

	return clampScore(score)
}

const (
	// Sweet spot: the budget range overlaps [25k, 100k].
	sweetSpotFloor   = 25000
	sweetSpotCeiling = 100000
	viableBudget     = 10000
	minimumContract  = 5000
)

// BudgetScore rates budget alignment against the service's contract sizes.
func BudgetScore(lead LeadRecord) int {
	score := 50.0
	budget := lead.BudgetRange

	if budget.Max >= sweetSpotFloor && budget.Min <= sweetSpotCeiling {
		score += 25
	} else if budget.Max >= viableBudget {
		score += 15
	} else if budget.Max < minimumContract {
		score -= 20
	}

	if lead.BudgetAuthority {
		score += 15
	}

	return clampScore(score)
}

var urgencyBonus = map[UrgencyLevel]float64{
	UrgencyCritical: 30,
	UrgencyHigh:     20,
	UrgencyMedium:   10,
	UrgencyLow:      -10,
}

var timeframeBonus = map[DecisionTimeframe]float64{
	TimeframeImmediate:  20,
	TimeframeOneToThree: 10,
	TimeframeThreeToSix: 5,
	TimeframeSixPlus:    -15,
}

// TimingScore rates urgency level and decision timeframe.
func TimingScore(lead LeadRecord) int {
	score := 50.0
	score += urgencyBonus[lead.UrgencyLevel]
	score += timeframeBonus[lead.DecisionTimeframe]
	return clampScore(score)
}

// CompetitiveScore rates how winnable the account is: articulated pain,
// cost/reliability dissatisfaction, incumbent weakness, technical needs.
func CompetitiveScore(lead LeadRecord) int {
	score := 50.0

	if len(lead.PainPoints) > 2 {
		score += 15
	}

	for _, pain := range lead.PainPoints {
		if containsFold(pain, "cost") || containsFold(pain, "reliability") {
			score += 10
			break
		}
	}

	if lead.CurrentCarrier == "" || len(lead.CompetitorMentions) > 0 {
		score += 10
	}

	if len(lead.TechnicalRequirements) > 0 {
		score += 5
	}

	return clampScore(score)
}

// ComputeBreakdown runs all five component scorers.
func ComputeBreakdown(lead LeadRecord) ScoreBreakdown {
	return ScoreBreakdown{
		Demographic: DemographicScore(lead),
		Behavioral:  BehavioralScore(lead),
		Budget:      BudgetScore(lead),
		Timing:      TimingScore(lead),
		Competitive: CompetitiveScore(lead),
	}
}
