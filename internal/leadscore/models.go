package leadscore

import "time"

// DefaultModels returns the built-in segment models used when no external
// model configuration is supplied. Weights and thresholds come from the
// sales team's historical win analysis; accuracy metadata is informational
// and only surfaces as the confidence level on scores.
func DefaultModels() []ScoringModel {
	created := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	return []ScoringModel{
		{
			ID:            "freight-forwarders-v2",
			Name:          "Freight Forwarder Fit",
			Version:       2,
			TargetSegment: SegmentFreightForwarders,
			Weights: ScoreWeights{
				Demographic: 0.20,
				Behavioral:  0.30,
				Budget:      0.20,
				Timing:      0.20,
				Competitive: 0.10,
			},
			Thresholds: ScoreThresholds{PriorityA: 80, PriorityB: 65, PriorityC: 50},
			Accuracy:   AccuracyMetrics{Precision: 0.78, Recall: 0.74, F1: 0.76, Lift: 2.1},
			IsActive:   true,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:            "manufacturers-v1",
			Name:          "Manufacturer / JIT Operations",
			Version:       1,
			TargetSegment: SegmentManufacturers,
			Weights: ScoreWeights{
				Demographic: 0.25,
				Behavioral:  0.20,
				Budget:      0.25,
				Timing:      0.20,
				Competitive: 0.10,
			},
			Thresholds: ScoreThresholds{PriorityA: 82, PriorityB: 68, PriorityC: 52},
			Accuracy:   AccuracyMetrics{Precision: 0.81, Recall: 0.77, F1: 0.79, Lift: 2.4},
			IsActive:   true,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:            "carriers-v1",
			Name:          "Carrier / Fleet Recruitment",
			Version:       1,
			TargetSegment: SegmentCarriers,
			Weights: ScoreWeights{
				Demographic: 0.15,
				Behavioral:  0.35,
				Budget:      0.15,
				Timing:      0.25,
				Competitive: 0.10,
			},
			Thresholds: ScoreThresholds{PriorityA: 78, PriorityB: 62, PriorityC: 48},
			Accuracy:   AccuracyMetrics{Precision: 0.74, Recall: 0.70, F1: 0.72, Lift: 1.8},
			IsActive:   true,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}
}
