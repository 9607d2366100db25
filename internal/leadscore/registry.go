package leadscore

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/deedavisinc/leadscore-pipeline/internal/errors"
)

// weightSumTolerance absorbs float rounding in configured weights.
const weightSumTolerance = 0.001

// segmentRule is one entry in the ordered selection chain. Rules are
// evaluated in declaration order; the first match wins, so the order
// itself is part of the contract and is testable.
type segmentRule struct {
	Segment Segment
	Matches func(LeadRecord) bool
}

var manufacturingMarkers = []string{"manufactur", "industrial", "assembly", "just-in-time", "jit"}
var carrierMarkers = []string{"carrier", "fleet", "trucking", "owner-operator"}

func matchesAny(markers []string, values ...string) bool {
	for _, v := range values {
		lower := strings.ToLower(v)
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// segmentRules is the ordered predicate chain for model selection.
var segmentRules = []segmentRule{
	{
		Segment: SegmentManufacturers,
		Matches: func(lead LeadRecord) bool {
			if matchesAny(manufacturingMarkers, lead.Industry) {
				return true
			}
			return matchesAny(manufacturingMarkers, lead.ServiceTypes...)
		},
	},
	{
		Segment: SegmentCarriers,
		Matches: func(lead LeadRecord) bool {
			if lead.ShipmentVolume == VolumeVeryHigh {
				return true
			}
			return matchesAny(carrierMarkers, lead.Industry)
		},
	},
	{
		Segment: SegmentFreightForwarders,
		Matches: func(LeadRecord) bool { return true },
	},
}

// Registry holds the fixed set of scoring models for a process. It is
// constructed once at startup, validated eagerly, and read-only after
// that, so concurrent SelectModel calls need no locking. Registries are
// always injected; there is no package-level instance.
type Registry struct {
	models    []ScoringModel
	bySegment map[Segment]int
}

// NewRegistry validates the supplied models and builds a registry.
// A model whose weights do not sum to 1.0 (within tolerance), whose
// thresholds are not strictly descending, or whose accuracy metrics fall
// outside [0,1] is rejected with a CONFIGURATION_ERROR, as is an input
// with zero active models. These failures are fatal at startup.
func NewRegistry(models []ScoringModel) (*Registry, error) {
	reg := &Registry{bySegment: make(map[Segment]int)}

	for _, model := range models {
		if err := validateModel(model); err != nil {
			return nil, err
		}
		reg.models = append(reg.models, model)
		if model.IsActive {
			if _, taken := reg.bySegment[model.TargetSegment]; !taken {
				reg.bySegment[model.TargetSegment] = len(reg.models) - 1
			}
		}
	}

	if len(reg.activeIndexes()) == 0 {
		return nil, apperrors.Configuration("registry has no active scoring models", nil)
	}

	return reg, nil
}

func validateModel(model ScoringModel) error {
	if model.ID == "" {
		return apperrors.Configuration("scoring model has empty id", nil)
	}
	if sum := model.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return apperrors.Configuration(
			fmt.Sprintf("model %s weights sum to %.4f, want 1.0", model.ID, sum), nil)
	}
	th := model.Thresholds
	if !(th.PriorityA > th.PriorityB && th.PriorityB > th.PriorityC && th.PriorityC >= 0) {
		return apperrors.Configuration(
			fmt.Sprintf("model %s thresholds %d/%d/%d are not strictly descending",
				model.ID, th.PriorityA, th.PriorityB, th.PriorityC), nil)
	}
	for name, metric := range map[string]float64{
		"precision": model.Accuracy.Precision,
		"recall":    model.Accuracy.Recall,
		"f1":        model.Accuracy.F1,
	} {
		if metric < 0 || metric > 1 {
			return apperrors.Configuration(
				fmt.Sprintf("model %s accuracy metric %s=%.4f outside [0,1]", model.ID, name, metric), nil)
		}
	}
	return nil
}

func (r *Registry) activeIndexes() []int {
	var active []int
	for i, model := range r.models {
		if model.IsActive {
			active = append(active, i)
		}
	}
	return active
}

// SelectModel picks the scoring model for a lead by walking the ordered
// segment rules. When no active model carries the matched segment tag,
// selection falls back to the first active model by registration order;
// that permissive default is deliberate, not a failure.
func (r *Registry) SelectModel(lead LeadRecord) ScoringModel {
	for _, rule := range segmentRules {
		if !rule.Matches(lead) {
			continue
		}
		if idx, ok := r.bySegment[rule.Segment]; ok {
			return r.models[idx]
		}
	}
	return r.models[r.activeIndexes()[0]]
}

// Models returns a copy of every registered model, active or not.
func (r *Registry) Models() []ScoringModel {
	out := make([]ScoringModel, len(r.models))
	copy(out, r.models)
	return out
}

// ActiveModels returns a copy of the active models in registration order.
func (r *Registry) ActiveModels() []ScoringModel {
	var out []ScoringModel
	for _, idx := range r.activeIndexes() {
		out = append(out, r.models[idx])
	}
	return out
}
