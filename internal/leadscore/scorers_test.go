package leadscore

import "testing"

func TestDemographicScore(t *testing.T) {
	tests := []struct {
		name string
		lead LeadRecord
		want int
	}{
		{
			name: "baseline medium company",
			lead: LeadRecord{CompanySize: SizeMedium},
			want: 60,
		},
		{
			name: "enterprise in priority region with target industry",
			lead: LeadRecord{
				CompanySize: SizeEnterprise,
				State:       "TX",
				Industry:    "Automotive Parts Manufacturing",
			},
			want: 85,
		},
		{
			name: "large company alone",
			lead: LeadRecord{CompanySize: SizeLarge},
			want: 65,
		},
		{
			name: "small company no bonuses",
			lead: LeadRecord{CompanySize: SizeSmall, State: "MT", Industry: "consulting"},
			want: 50,
		},
		{
			name: "region match is case-insensitive",
			lead: LeadRecord{CompanySize: SizeSmall, State: "ca"},
			want: 60,
		},
		{
			name: "industry match is substring",
			lead: LeadRecord{CompanySize: SizeSmall, Industry: "Retail Distribution"},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DemographicScore(tt.lead); got != tt.want {
				t.Errorf("DemographicScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBehavioralScore(t *testing.T) {
	tests := []struct {
		name string
		eng  EngagementHistory
		want int
	}{
		{
			name: "no engagement",
			eng:  EngagementHistory{},
			want: 50,
		},
		{
			name: "contact cadence sweet spot",
			eng:  EngagementHistory{ContactCount: 4},
			want: 75,
		},
		{
			name: "over-contacted gets smaller bonus",
			eng:  EngagementHistory{ContactCount: 9},
			want: 65,
		},
		{
			name: "response rate scales fractionally",
			eng:  EngagementHistory{ResponseRate: 50},
			want: 65,
		},
		{
			name: "fully engaged clamps at 100",
			eng: EngagementHistory{
				EmailsOpened:        10,
				LinksClicked:        4,
				WebsiteVisits:       6,
				ContactCount:        4,
				ResponseRate:        80,
				DocumentsDownloaded: []string{"pricing-guide"},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BehavioralScore(LeadRecord{Engagement: tt.eng}); got != tt.want {
				t.Errorf("BehavioralScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBehavioralScoreContactMonotonicity(t *testing.T) {
	// More touches inside the cadence window must never score below fewer.
	two := BehavioralScore(LeadRecord{Engagement: EngagementHistory{ContactCount: 2}})
	four := BehavioralScore(LeadRecord{Engagement: EngagementHistory{ContactCount: 4}})
	if four <= two {
		t.Errorf("4 contacts scored %d, 2 contacts scored %d; want 4 > 2", four, two)
	}
}

func TestBudgetScore(t *testing.T) {
	tests := []struct {
		name      string
		budget    BudgetRange
		authority bool
		want      int
	}{
		{
			name:   "sweet spot overlap",
			budget: BudgetRange{Min: 30000, Max: 80000},
			want:   75,
		},
		{
			name:   "huge budget still overlaps sweet spot",
			budget: BudgetRange{Min: 50000, Max: 2000000},
			want:   75,
		},
		{
			name:   "entirely above sweet spot is merely viable",
			budget: BudgetRange{Min: 150000, Max: 500000},
			want:   65,
		},
		{
			name:   "viable but below sweet spot",
			budget: BudgetRange{Min: 5000, Max: 12000},
			want:   65,
		},
		{
			name:   "below minimum contract",
			budget: BudgetRange{Min: 1000, Max: 3000},
			want:   30,
		},
		{
			name:   "middling budget no adjustment",
			budget: BudgetRange{Min: 5000, Max: 8000},
			want:   50,
		},
		{
			name:      "authority bonus stacks",
			budget:    BudgetRange{Min: 30000, Max: 80000},
			authority: true,
			want:      90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := LeadRecord{BudgetRange: tt.budget, BudgetAuthority: tt.authority}
			if got := BudgetScore(lead); got != tt.want {
				t.Errorf("BudgetScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimingScore(t *testing.T) {
	tests := []struct {
		name      string
		urgency   UrgencyLevel
		timeframe DecisionTimeframe
		want      int
	}{
		{"critical and immediate clamps at 100", UrgencyCritical, TimeframeImmediate, 100},
		{"high urgency near-term", UrgencyHigh, TimeframeOneToThree, 80},
		{"medium defaults", UrgencyMedium, TimeframeThreeToSix, 65},
		{"low urgency long horizon", UrgencyLow, TimeframeSixPlus, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := LeadRecord{UrgencyLevel: tt.urgency, DecisionTimeframe: tt.timeframe}
			if got := TimingScore(lead); got != tt.want {
				t.Errorf("TimingScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompetitiveScore(t *testing.T) {
	tests := []struct {
		name string
		lead LeadRecord
		want int
	}{
		{
			name: "incumbent-free lead",
			lead: LeadRecord{},
			want: 60,
		},
		{
			name: "entrenched incumbent no pain",
			lead: LeadRecord{CurrentCarrier: "MegaFreight"},
			want: 50,
		},
		{
			name: "every winnability signal",
			lead: LeadRecord{
				PainPoints:            []string{"high shipping costs", "delays", "damage claims"},
				CurrentCarrier:        "",
				TechnicalRequirements: []string{"edi integration"},
			},
			want: 90,
		},
		{
			name: "reliability pain with incumbent",
			lead: LeadRecord{
				PainPoints:     []string{"poor reliability"},
				CurrentCarrier: "MegaFreight",
			},
			want: 60,
		},
		{
			name: "competitor mentions open the door",
			lead: LeadRecord{
				CurrentCarrier:     "MegaFreight",
				CompetitorMentions: []string{"FreightCo"},
			},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompetitiveScore(tt.lead); got != tt.want {
				t.Errorf("CompetitiveScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAllScorersStayInBounds(t *testing.T) {
	extremes := []LeadRecord{
		{},
		{
			CompanySize: SizeEnterprise,
			State:       "CA",
			Industry:    "pharmaceutical manufacturing",
			PainPoints:  []string{"cost", "reliability", "speed", "visibility"},
			BudgetRange: BudgetRange{Min: 25000, Max: 100000},
			Engagement: EngagementHistory{
				EmailsOpened:        50,
				LinksClicked:        30,
				WebsiteVisits:       40,
				ContactCount:        4,
				ResponseRate:        100,
				DocumentsDownloaded: []string{"a", "b"},
			},
			UrgencyLevel:          UrgencyCritical,
			DecisionTimeframe:     TimeframeImmediate,
			BudgetAuthority:       true,
			TechnicalRequirements: []string{"api"},
		},
		{
			BudgetRange:       BudgetRange{Min: 0, Max: 100},
			UrgencyLevel:      UrgencyLow,
			DecisionTimeframe: TimeframeSixPlus,
		},
	}

	for i, lead := range extremes {
		b := ComputeBreakdown(lead)
		for name, sub := range map[string]int{
			"demographic": b.Demographic,
			"behavioral":  b.Behavioral,
			"budget":      b.Budget,
			"timing":      b.Timing,
			"competitive": b.Competitive,
		} {
			if sub < 0 || sub > 100 {
				t.Errorf("lead %d: %s sub-score %d outside [0,100]", i, name, sub)
			}
		}
	}
}
