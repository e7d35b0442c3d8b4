// Package models defines shared domain types used across GearGuard plugins.
package models

import "time"

// Severity classifies how urgent a predicted failure is.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityRank orders severities for comparisons (higher is more urgent).
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Valid reports whether s is one of the defined severity values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is equal to or more urgent than other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Confidence describes how far a failure probability sits from the
// model's decision boundary.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Prediction is a classified equipment failure prediction. All derived
// fields (severity, health score, confidence, recommended action) are
// deterministic functions of the failure probability and sensor features.
type Prediction struct {
	EquipmentID        string     `json:"equipment_id"`
	FailureProbability float64    `json:"failure_probability"`
	Severity           Severity   `json:"severity"`
	DaysUntilFailure   int        `json:"days_until_failure"`
	HealthScore        float64    `json:"health_score"`
	Confidence         Confidence `json:"confidence"`
	RecommendedAction  string     `json:"recommended_action"`
	Source             string     `json:"source"` // "ml_prediction" or "simulated"
	PredictedAt        time.Time  `json:"predicted_at"`
}
