package leadscore

import (
	"reflect"
	"strings"
	"testing"
)

func scoredLead(id, industry, source string, overall, probability int, priority PriorityLevel, competitors ...string) ScoredLead {
	return ScoredLead{
		Lead: LeadRecord{
			ID:                 id,
			Industry:           industry,
			CompetitorMentions: competitors,
			Engagement:         EngagementHistory{Source: source},
		},
		Score: LeadScore{
			LeadID:                id,
			OverallScore:          overall,
			ConversionProbability: probability,
			Priority:              priority,
		},
	}
}

func sampleSnapshot() []ScoredLead {
	return []ScoredLead{
		scoredLead("l1", "manufacturing", "trade_show", 85, 80, PriorityA, "FreightCo"),
		scoredLead("l2", "manufacturing", "trade_show", 78, 76, PriorityA, "FreightCo", "ShipFast"),
		scoredLead("l3", "retail", "web_form", 60, 55, PriorityB),
		scoredLead("l4", "retail", "web_form", 55, 48, PriorityC),
		scoredLead("l5", "pharmaceutical", "referral", 90, 88, PriorityA, "FreightCo"),
		scoredLead("l6", "", "cold_call", 40, 30, PriorityD),
	}
}

func TestComputeInsightsIdempotent(t *testing.T) {
	agg := NewAggregator()
	snapshot := sampleSnapshot()

	first := agg.ComputeInsights(snapshot)
	second := agg.ComputeInsights(snapshot)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical snapshots produced different insights:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestComputeInsightsIndustryRanking(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	if insights.TotalLeads != 6 {
		t.Errorf("TotalLeads = %d, want 6", insights.TotalLeads)
	}
	if len(insights.HotIndustries) != 4 {
		t.Fatalf("HotIndustries has %d entries, want 4", len(insights.HotIndustries))
	}

	// manufacturing and pharmaceutical both convert at 100%; the tie
	// breaks alphabetically so the ordering is stable.
	if insights.HotIndustries[0].Industry != "manufacturing" {
		t.Errorf("top hot industry = %s, want manufacturing", insights.HotIndustries[0].Industry)
	}
	if insights.HotIndustries[1].Industry != "pharmaceutical" {
		t.Errorf("second hot industry = %s, want pharmaceutical", insights.HotIndustries[1].Industry)
	}

	mfg := insights.HotIndustries[0]
	if mfg.LeadCount != 2 || mfg.AverageScore != 81.5 || mfg.ConversionRatio != 1.0 {
		t.Errorf("manufacturing insight = %+v, want count 2, avg 81.5, ratio 1.0", mfg)
	}

	// The lead with no industry lands in a named bucket rather than
	// vanishing from the totals.
	found := false
	for _, ind := range insights.HotIndustries {
		if ind.Industry == "unspecified" {
			found = true
		}
	}
	if !found {
		t.Error("lead without industry missing from insights")
	}
}

func TestComputeInsightsTopSegmentsOrderedByScore(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	wantOrder := []string{"pharmaceutical", "manufacturing", "retail", "unspecified"}
	var gotOrder []string
	for _, seg := range insights.TopSegments {
		gotOrder = append(gotOrder, seg.Industry)
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("TopSegments order = %v, want %v", gotOrder, wantOrder)
	}
}

func TestComputeInsightsSourcePerformance(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	if len(insights.SourcePerformance) != 4 {
		t.Fatalf("SourcePerformance has %d entries, want 4", len(insights.SourcePerformance))
	}
	best := insights.SourcePerformance[0]
	if best.Source != "referral" || best.AverageScore != 90 {
		t.Errorf("best source = %+v, want referral at 90", best)
	}
	worst := insights.SourcePerformance[len(insights.SourcePerformance)-1]
	if worst.Source != "cold_call" || worst.AverageScore != 40 {
		t.Errorf("worst source = %+v, want cold_call at 40", worst)
	}
}

func TestComputeInsightsCompetitorMentions(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	want := []CompetitorMentionCount{
		{Competitor: "FreightCo", Mentions: 3},
		{Competitor: "ShipFast", Mentions: 1},
	}
	if !reflect.DeepEqual(insights.CompetitorMentions, want) {
		t.Errorf("CompetitorMentions = %+v, want %+v", insights.CompetitorMentions, want)
	}
}

func TestComputeInsightsConversionByPriority(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	if len(insights.ConversionByPriority) != 4 {
		t.Fatalf("ConversionByPriority has %d tiers, want 4", len(insights.ConversionByPriority))
	}

	wantTiers := []PriorityLevel{PriorityA, PriorityB, PriorityC, PriorityD}
	for i, tier := range insights.ConversionByPriority {
		if tier.Priority != wantTiers[i] {
			t.Errorf("tier %d = %s, want %s", i, tier.Priority, wantTiers[i])
		}
	}

	tierA := insights.ConversionByPriority[0]
	// l1 (80/85), l2 (76/78), l5 (88/90) all clear the default judge.
	if tierA.Total != 3 || tierA.Converted != 3 || tierA.Rate != 1.0 {
		t.Errorf("tier A = %+v, want 3/3 at rate 1.0", tierA)
	}

	tierD := insights.ConversionByPriority[3]
	if tierD.Total != 1 || tierD.Converted != 0 || tierD.Rate != 0 {
		t.Errorf("tier D = %+v, want 1/0 at rate 0", tierD)
	}
}

func TestComputeInsightsCustomJudge(t *testing.T) {
	everything := NewAggregatorWithJudge(func(LeadScore) bool { return true })
	insights := everything.ComputeInsights(sampleSnapshot())

	for _, tier := range insights.ConversionByPriority {
		if tier.Total > 0 && tier.Rate != 1.0 {
			t.Errorf("tier %s rate = %.2f, want 1.0 with an accept-all judge", tier.Priority, tier.Rate)
		}
	}

	nothing := NewAggregatorWithJudge(func(LeadScore) bool { return false })
	insights = nothing.ComputeInsights(sampleSnapshot())
	for _, tier := range insights.ConversionByPriority {
		if tier.Converted != 0 {
			t.Errorf("tier %s converted = %d, want 0 with a reject-all judge", tier.Priority, tier.Converted)
		}
	}
}

func TestComputeInsightsRecommendations(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(sampleSnapshot())

	var hasReallocation, hasMessaging bool
	for _, rec := range insights.Recommendations {
		if strings.Contains(rec.Action, "Reallocate") {
			hasReallocation = true
			if rec.Effort != EffortMedium {
				t.Errorf("reallocation effort = %s, want medium", rec.Effort)
			}
		}
		if strings.Contains(rec.Action, "messaging") {
			hasMessaging = true
			if rec.Effort != EffortLow {
				t.Errorf("messaging effort = %s, want low", rec.Effort)
			}
		}
	}

	// referral (90) vs cold_call (40) is a 50-point gap; tier A converts
	// at 100%. Both rules should fire.
	if !hasReallocation {
		t.Error("expected a source reallocation recommendation")
	}
	if !hasMessaging {
		t.Error("expected a tier messaging recommendation")
	}
}

func TestComputeInsightsEmptySnapshot(t *testing.T) {
	agg := NewAggregator()
	insights := agg.ComputeInsights(nil)

	if insights.TotalLeads != 0 {
		t.Errorf("TotalLeads = %d, want 0", insights.TotalLeads)
	}
	if len(insights.HotIndustries) != 0 {
		t.Errorf("HotIndustries = %+v, want empty", insights.HotIndustries)
	}
	if len(insights.ConversionByPriority) != 4 {
		t.Errorf("ConversionByPriority has %d tiers, want all 4 with zero counts", len(insights.ConversionByPriority))
	}
	for _, tier := range insights.ConversionByPriority {
		if tier.Total != 0 || tier.Rate != 0 {
			t.Errorf("empty snapshot tier %s = %+v, want zeros", tier.Priority, tier)
		}
	}
	if len(insights.Recommendations) != 0 {
		t.Errorf("Recommendations = %+v, want none", insights.Recommendations)
	}
}
