package leadscore

import (
	"fmt"
	"math"
	"sort"
)

// ScoredLead pairs a lead with its current score for aggregation.
// Callers needing a consistent view across a fluctuating store should
// pass an explicitly captured snapshot.
type ScoredLead struct {
	Lead  LeadRecord `json:"lead"`
	Score LeadScore  `json:"score"`
}

// IndustryInsight summarizes one industry group.
type IndustryInsight struct {
	Industry        string  `json:"industry"`
	LeadCount       int     `json:"lead_count"`
	AverageScore    float64 `json:"average_score"`
	ConversionRatio float64 `json:"conversion_ratio"`
}

// SourcePerformance summarizes one acquisition source.
type SourcePerformance struct {
	Source       string  `json:"source"`
	LeadCount    int     `json:"lead_count"`
	AverageScore float64 `json:"average_score"`
}

// CompetitorMentionCount is the frequency of one competitor across leads.
type CompetitorMentionCount struct {
	Competitor string `json:"competitor"`
	Mentions   int    `json:"mentions"`
}

// TierConversion is the conversion rate within one priority tier.
type TierConversion struct {
	Priority  PriorityLevel `json:"priority"`
	Total     int           `json:"total"`
	Converted int           `json:"converted"`
	Rate      float64       `json:"rate"`
}

// EffortTier is the rough cost of acting on a recommendation.
type EffortTier string

const (
	EffortLow    EffortTier = "low"
	EffortMedium EffortTier = "medium"
	EffortHigh   EffortTier = "high"
)

// Recommendation is one synthesized portfolio-level action.
type Recommendation struct {
	Action          string     `json:"action"`
	EstimatedImpact float64    `json:"estimated_impact_pct"`
	Effort          EffortTier `json:"effort"`
}

// LeadInsights is the portfolio-level view over a snapshot of scored
// leads. It intentionally carries no timestamp: identical input snapshots
// must produce identical values.
type LeadInsights struct {
	TotalLeads           int                      `json:"total_leads"`
	HotIndustries        []IndustryInsight        `json:"hot_industries"`
	SourcePerformance    []SourcePerformance      `json:"source_performance"`
	CompetitorMentions   []CompetitorMentionCount `json:"competitor_mentions"`
	ConversionByPriority []TierConversion         `json:"conversion_by_priority"`
	TopSegments          []IndustryInsight        `json:"top_segments"`
	Recommendations      []Recommendation         `json:"recommendations"`
}

// ConversionJudge decides whether a scored lead counts as converted for
// tier conversion rates. The default is a heuristic over the score
// itself; a deployment with real won/lost labels substitutes its own.
type ConversionJudge func(LeadScore) bool

// DefaultConversionJudge is the stand-in heuristic used until real
// outcome labels exist.
func DefaultConversionJudge(score LeadScore) bool {
	return score.ConversionProbability > 75 && score.OverallScore > 70
}

// hotConversionThreshold marks a lead as a likely conversion when
// grouping industries.
const hotConversionThreshold = 70

// Aggregator computes LeadInsights from a snapshot of scored leads.
// It holds no state between calls; ComputeInsights is a pure reduction.
type Aggregator struct {
	judge ConversionJudge
}

// NewAggregator builds an aggregator with the default conversion judge.
func NewAggregator() *Aggregator {
	return &Aggregator{judge: DefaultConversionJudge}
}

// NewAggregatorWithJudge builds an aggregator with a custom judge.
func NewAggregatorWithJudge(judge ConversionJudge) *Aggregator {
	if judge == nil {
		judge = DefaultConversionJudge
	}
	return &Aggregator{judge: judge}
}

type industryAccum struct {
	count      int
	scoreTotal int
	converted  int
}

// ComputeInsights reduces the snapshot into portfolio analytics.
// Identical snapshots produce identical results.
func (a *Aggregator) ComputeInsights(scored []ScoredLead) LeadInsights {
	insights := LeadInsights{TotalLeads: len(scored)}

	industries := make(map[string]*industryAccum)
	sources := make(map[string]*industryAccum)
	competitors := make(map[string]int)
	tierTotals := make(map[PriorityLevel]int)
	tierConverted := make(map[PriorityLevel]int)

	for _, sl := range scored {
		industry := sl.Lead.Industry
		if industry == "" {
			industry = "unspecified"
		}
		acc := industries[industry]
		if acc == nil {
			acc = &industryAccum{}
			industries[industry] = acc
		}
		acc.count++
		acc.scoreTotal += sl.Score.OverallScore
		if sl.Score.ConversionProbability > hotConversionThreshold {
			acc.converted++
		}

		source := sl.Lead.Engagement.Source
		if source == "" {
			source = "unknown"
		}
		srcAcc := sources[source]
		if srcAcc == nil {
			srcAcc = &industryAccum{}
			sources[source] = srcAcc
		}
		srcAcc.count++
		srcAcc.scoreTotal += sl.Score.OverallScore

		for _, competitor := range sl.Lead.CompetitorMentions {
			competitors[competitor]++
		}

		tierTotals[sl.Score.Priority]++
		if a.judge(sl.Score) {
			tierConverted[sl.Score.Priority]++
		}
	}

	industryInsights := make([]IndustryInsight, 0, len(industries))
	for name, acc := range industries {
		industryInsights = append(industryInsights, IndustryInsight{
			Industry:        name,
			LeadCount:       acc.count,
			AverageScore:    round2(float64(acc.scoreTotal) / float64(acc.count)),
			ConversionRatio: round2(float64(acc.converted) / float64(acc.count)),
		})
	}

	insights.HotIndustries = topIndustries(industryInsights, func(a, b IndustryInsight) bool {
		if a.ConversionRatio != b.ConversionRatio {
			return a.ConversionRatio > b.ConversionRatio
		}
		return a.Industry < b.Industry
	})
	insights.TopSegments = topIndustries(industryInsights, func(a, b IndustryInsight) bool {
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.Industry < b.Industry
	})

	for name, acc := range sources {
		insights.SourcePerformance = append(insights.SourcePerformance, SourcePerformance{
			Source:       name,
			LeadCount:    acc.count,
			AverageScore: round2(float64(acc.scoreTotal) / float64(acc.count)),
		})
	}
	sort.Slice(insights.SourcePerformance, func(i, j int) bool {
		a, b := insights.SourcePerformance[i], insights.SourcePerformance[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.Source < b.Source
	})

	for name, count := range competitors {
		insights.CompetitorMentions = append(insights.CompetitorMentions, CompetitorMentionCount{
			Competitor: name,
			Mentions:   count,
		})
	}
	sort.Slice(insights.CompetitorMentions, func(i, j int) bool {
		a, b := insights.CompetitorMentions[i], insights.CompetitorMentions[j]
		if a.Mentions != b.Mentions {
			return a.Mentions > b.Mentions
		}
		return a.Competitor < b.Competitor
	})

	for _, tier := range []PriorityLevel{PriorityA, PriorityB, PriorityC, PriorityD} {
		total := tierTotals[tier]
		converted := tierConverted[tier]
		rate := 0.0
		if total > 0 {
			rate = round2(float64(converted) / float64(total))
		}
		insights.ConversionByPriority = append(insights.ConversionByPriority, TierConversion{
			Priority:  tier,
			Total:     total,
			Converted: converted,
			Rate:      rate,
		})
	}

	insights.Recommendations = a.synthesizeRecommendations(insights)
	return insights
}

const maxRankedGroups = 5

func topIndustries(all []IndustryInsight, less func(a, b IndustryInsight) bool) []IndustryInsight {
	ranked := make([]IndustryInsight, len(all))
	copy(ranked, all)
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > maxRankedGroups {
		ranked = ranked[:maxRankedGroups]
	}
	return ranked
}

// synthesizeRecommendations turns the aggregates into prioritized,
// portfolio-level actions with a rough impact estimate and effort tier.
func (a *Aggregator) synthesizeRecommendations(insights LeadInsights) []Recommendation {
	var recs []Recommendation

	// A wide spread between acquisition sources means spend is
	// misallocated toward the weak one.
	if n := len(insights.SourcePerformance); n >= 2 {
		best := insights.SourcePerformance[0]
		worst := insights.SourcePerformance[n-1]
		if diff := best.AverageScore - worst.AverageScore; diff > 10 {
			recs = append(recs, Recommendation{
				Action: fmt.Sprintf("Reallocate acquisition investment from %q to %q (%.0f point average score gap)",
					worst.Source, best.Source, diff),
				EstimatedImpact: round2(diff),
				Effort:          EffortMedium,
			})
		}
	}

	for _, tier := range insights.ConversionByPriority {
		if tier.Total > 0 && tier.Rate > 0.5 {
			recs = append(recs, Recommendation{
				Action: fmt.Sprintf("Study the messaging used with priority %s leads and replicate it in lower tiers",
					tier.Priority),
				EstimatedImpact: 15,
				Effort:          EffortLow,
			})
			break
		}
	}

	if len(insights.HotIndustries) > 0 {
		hottest := insights.HotIndustries[0]
		if hottest.ConversionRatio > 0.5 && hottest.LeadCount > 1 {
			recs = append(recs, Recommendation{
				Action: fmt.Sprintf("Expand prospecting in the %q segment (%.0f%% of leads converting)",
					hottest.Industry, hottest.ConversionRatio*100),
				EstimatedImpact: 20,
				Effort:          EffortLow,
			})
		}
	}

	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
