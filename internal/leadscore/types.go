package leadscore

import (
	"time"

	"github.com/google/uuid"
)

// CompanySize classifies a prospect by headcount/revenue bracket.
type CompanySize string

const (
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// ShipmentVolume classifies a prospect's freight volume.
type ShipmentVolume string

const (
	VolumeLow      ShipmentVolume = "low"
	VolumeMedium   ShipmentVolume = "medium"
	VolumeHigh     ShipmentVolume = "high"
	VolumeVeryHigh ShipmentVolume = "very_high"
)

// UrgencyLevel captures how pressing the prospect's need is.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// DecisionTimeframe captures when the prospect expects to decide.
type DecisionTimeframe string

const (
	TimeframeImmediate    DecisionTimeframe = "immediate"
	TimeframeOneToThree   DecisionTimeframe = "1-3_months"
	TimeframeThreeToSix   DecisionTimeframe = "3-6_months"
	TimeframeSixPlus      DecisionTimeframe = "6+_months"
)

// QualificationStatus tracks where a lead sits in the sales funnel.
type QualificationStatus string

const (
	StatusNew          QualificationStatus = "new"
	StatusContacted    QualificationStatus = "contacted"
	StatusQualified    QualificationStatus = "qualified"
	StatusNurturing    QualificationStatus = "nurturing"
	StatusDisqualified QualificationStatus = "disqualified"
)

// PriorityLevel is the coarse A-D bucket derived from the overall score.
type PriorityLevel string

const (
	PriorityA PriorityLevel = "A"
	PriorityB PriorityLevel = "B"
	PriorityC PriorityLevel = "C"
	PriorityD PriorityLevel = "D"
)

// Segment tags the target market a scoring model was tuned for.
type Segment string

const (
	SegmentFreightForwarders Segment = "freight_forwarders"
	SegmentManufacturers     Segment = "manufacturers"
	SegmentCarriers          Segment = "carriers"
)

// BudgetRange is the prospect's stated monthly freight budget.
// Invariant: Min <= Max, both >= 0.
type BudgetRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0"`
}

// Average returns the midpoint of the range.
func (b BudgetRange) Average() float64 {
	return (b.Min + b.Max) / 2
}

// EngagementHistory records how the prospect has interacted with outreach.
type EngagementHistory struct {
	Source              string    `json:"source"`
	FirstContact        time.Time `json:"first_contact"`
	LastContact         time.Time `json:"last_contact"`
	ContactCount        int       `json:"contact_count" validate:"gte=0"`
	ResponseRate        float64   `json:"response_rate" validate:"gte=0,lte=100"`
	EmailsOpened        int       `json:"emails_opened" validate:"gte=0"`
	LinksClicked        int       `json:"links_clicked" validate:"gte=0"`
	WebsiteVisits       int       `json:"website_visits" validate:"gte=0"`
	DocumentsDownloaded []string  `json:"documents_downloaded"`
}

// LeadRecord is an immutable-per-version description of a sales prospect.
// The engine never mutates a LeadRecord; missing optional fields are
// substituted with neutral defaults at the Score boundary.
type LeadRecord struct {
	ID          string      `json:"id" validate:"required"`
	CompanyName string      `json:"company_name"`
	Industry    string      `json:"industry"`
	CompanySize CompanySize `json:"company_size"`

	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code,omitempty"`

	ShipmentVolume ShipmentVolume `json:"shipment_volume"`
	ServiceTypes   []string       `json:"service_types"`
	PainPoints     []string       `json:"pain_points"`
	CurrentCarrier string         `json:"current_carrier,omitempty"`
	BudgetRange    BudgetRange    `json:"budget_range"`

	Engagement EngagementHistory `json:"engagement"`

	UrgencyLevel          UrgencyLevel      `json:"urgency_level"`
	DecisionTimeframe     DecisionTimeframe `json:"decision_timeframe"`
	BudgetAuthority       bool              `json:"budget_authority"`
	TechnicalRequirements []string          `json:"technical_requirements"`
	CompetitorMentions    []string          `json:"competitor_mentions"`

	Status    QualificationStatus `json:"status"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ScoreWeights holds one weight per scoring dimension. The registry rejects
// models whose weights do not sum to 1.0 within tolerance.
type ScoreWeights struct {
	Demographic float64 `json:"demographic"`
	Behavioral  float64 `json:"behavioral"`
	Budget      float64 `json:"budget"`
	Timing      float64 `json:"timing"`
	Competitive float64 `json:"competitive"`
}

// Sum returns the total of all five weights.
func (w ScoreWeights) Sum() float64 {
	return w.Demographic + w.Behavioral + w.Budget + w.Timing + w.Competitive
}

// ScoreThresholds defines the priority tier boundaries.
// Invariant: PriorityA > PriorityB > PriorityC >= 0.
type ScoreThresholds struct {
	PriorityA int `json:"priority_a"`
	PriorityB int `json:"priority_b"`
	PriorityC int `json:"priority_c"`
}

// AccuracyMetrics is informational model metadata. It never feeds the score;
// only F1 surfaces on the output as the confidence level.
type AccuracyMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Lift      float64 `json:"lift"`
}

// ScoringModel is a versioned, named scoring configuration. Models are
// loaded once at startup and never mutated by scoring.
type ScoringModel struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Version       int             `json:"version"`
	TargetSegment Segment         `json:"target_segment"`
	Weights       ScoreWeights    `json:"weights"`
	Thresholds    ScoreThresholds `json:"thresholds"`
	Accuracy      AccuracyMetrics `json:"accuracy"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ScoreBreakdown holds the five per-dimension sub-scores, each 0-100.
type ScoreBreakdown struct {
	Demographic int `json:"demographic"`
	Behavioral  int `json:"behavioral"`
	Budget      int `json:"budget"`
	Timing      int `json:"timing"`
	Competitive int `json:"competitive"`
}

// ActionUrgency categorizes how soon a recommended action should happen.
type ActionUrgency string

const (
	ActionImmediate ActionUrgency = "immediate"
	ActionHigh      ActionUrgency = "high"
	ActionMedium    ActionUrgency = "medium"
	ActionLow       ActionUrgency = "low"
)

// RecommendedAction is one ranked next step for working a lead.
type RecommendedAction struct {
	Action        string        `json:"action"`
	Urgency       ActionUrgency `json:"urgency"`
	ExpectedValue float64       `json:"expected_value"`
	Timeframe     string        `json:"timeframe"`
}

// LeadScore is the scoring engine's output for one lead at one point in
// time. Each scoring call produces a fresh value; history entries are
// appended, never overwritten.
type LeadScore struct {
	ID                    uuid.UUID           `json:"id"`
	LeadID                string              `json:"lead_id"`
	ModelID               string              `json:"model_id"`
	OverallScore          int                 `json:"overall_score"`
	ConversionProbability int                 `json:"conversion_probability"`
	Breakdown             ScoreBreakdown      `json:"breakdown"`
	Priority              PriorityLevel       `json:"priority"`
	RecommendedActions    []RecommendedAction `json:"recommended_actions"`
	RiskFactors           []string            `json:"risk_factors"`
	OpportunityValue      float64             `json:"opportunity_value"`
	ConfidenceLevel       int                 `json:"confidence_level"`
	ScoredAt              time.Time           `json:"scored_at"`
}
