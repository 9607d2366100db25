package leadscore

import (
	"testing"
	"time"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
)

func TestValidateLead(t *testing.T) {
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lead    LeadRecord
		wantErr bool
	}{
		{
			name: "complete lead passes",
			lead: LeadRecord{
				ID:          "l1",
				BudgetRange: BudgetRange{Min: 10000, Max: 50000},
				Engagement: EngagementHistory{
					FirstContact: now.AddDate(0, -2, 0),
					LastContact:  now,
					ContactCount: 3,
					ResponseRate: 40,
				},
			},
		},
		{
			name: "bare id passes",
			lead: LeadRecord{ID: "l2"},
		},
		{
			name:    "missing id",
			lead:    LeadRecord{CompanyName: "Anonymous Corp"},
			wantErr: true,
		},
		{
			name:    "budget min above max",
			lead:    LeadRecord{ID: "l3", BudgetRange: BudgetRange{Min: 60000, Max: 20000}},
			wantErr: true,
		},
		{
			name:    "negative budget",
			lead:    LeadRecord{ID: "l4", BudgetRange: BudgetRange{Min: -100, Max: 1000}},
			wantErr: true,
		},
		{
			name:    "negative emails opened",
			lead:    LeadRecord{ID: "l5", Engagement: EngagementHistory{EmailsOpened: -2}},
			wantErr: true,
		},
		{
			name:    "response rate above 100",
			lead:    LeadRecord{ID: "l6", Engagement: EngagementHistory{ResponseRate: 101}},
			wantErr: true,
		},
		{
			name: "last contact before first contact",
			lead: LeadRecord{
				ID: "l7",
				Engagement: EngagementHistory{
					FirstContact: now,
					LastContact:  now.AddDate(0, -1, 0),
				},
			},
			wantErr: true,
		},
		{
			name: "only first contact set passes",
			lead: LeadRecord{
				ID:         "l8",
				Engagement: EngagementHistory{FirstContact: now},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLead(tt.lead)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ValidateLead() = nil, want error")
				}
				if !apperrors.IsValidation(err) {
					t.Errorf("ValidateLead() error = %v, want VALIDATION_ERROR", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateLead() = %v, want nil", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	got := ApplyDefaults(LeadRecord{ID: "l1"})

	if got.CompanySize != SizeMedium {
		t.Errorf("CompanySize = %s, want medium", got.CompanySize)
	}
	if got.ShipmentVolume != VolumeMedium {
		t.Errorf("ShipmentVolume = %s, want medium", got.ShipmentVolume)
	}
	if got.UrgencyLevel != UrgencyMedium {
		t.Errorf("UrgencyLevel = %s, want medium", got.UrgencyLevel)
	}
	if got.DecisionTimeframe != TimeframeThreeToSix {
		t.Errorf("DecisionTimeframe = %s, want 3-6_months", got.DecisionTimeframe)
	}
	if got.Status != StatusNew {
		t.Errorf("Status = %s, want new", got.Status)
	}
	if got.Engagement.Source != "unknown" {
		t.Errorf("Engagement.Source = %s, want unknown", got.Engagement.Source)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	lead := LeadRecord{
		ID:                "l1",
		CompanySize:       SizeEnterprise,
		ShipmentVolume:    VolumeVeryHigh,
		UrgencyLevel:      UrgencyCritical,
		DecisionTimeframe: TimeframeImmediate,
		Status:            StatusQualified,
		Engagement:        EngagementHistory{Source: "referral"},
	}

	got := ApplyDefaults(lead)
	if got.CompanySize != SizeEnterprise || got.ShipmentVolume != VolumeVeryHigh ||
		got.UrgencyLevel != UrgencyCritical || got.DecisionTimeframe != TimeframeImmediate ||
		got.Status != StatusQualified || got.Engagement.Source != "referral" {
		t.Errorf("ApplyDefaults() overwrote explicit values: %+v", got)
	}
}

func TestApplyDefaultsDoesNotMutateInput(t *testing.T) {
	lead := LeadRecord{ID: "l1"}
	_ = ApplyDefaults(lead)
	if lead.CompanySize != "" || lead.Status != "" {
		t.Errorf("ApplyDefaults() mutated its argument: %+v", lead)
	}
}
