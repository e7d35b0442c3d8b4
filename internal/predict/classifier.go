package predict

import (
	"math"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
)

// Severity thresholds on failure probability. Boundaries are inclusive:
// a probability of exactly 0.8 classifies as CRITICAL.
const (
	criticalThreshold = 0.8
	highThreshold     = 0.6
	mediumThreshold   = 0.4
)

// Estimated lead time until failure per severity tier, in days.
const (
	criticalLeadDays = 7
	highLeadDays     = 15
	mediumLeadDays   = 30
	lowLeadDays      = 60
)

// Recommended operator actions per severity tier.
var recommendedActions = map[models.Severity]string{
	models.SeverityCritical: "Schedule immediate maintenance - equipment likely to fail within 7 days",
	models.SeverityHigh:     "Schedule maintenance within 2 weeks - equipment showing signs of degradation",
	models.SeverityMedium:   "Plan maintenance within next month - monitor equipment closely",
	models.SeverityLow:      "Continue normal operation - routine maintenance as scheduled",
}

// SeverityFor maps a failure probability to a severity tier.
func SeverityFor(p float64) models.Severity {
	switch {
	case p >= criticalThreshold:
		return models.SeverityCritical
	case p >= highThreshold:
		return models.SeverityHigh
	case p >= mediumThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// LeadDays returns the estimated days until failure for a severity tier.
func LeadDays(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return criticalLeadDays
	case models.SeverityHigh:
		return highLeadDays
	case models.SeverityMedium:
		return mediumLeadDays
	default:
		return lowLeadDays
	}
}

// RecommendedAction returns the operator guidance for a severity tier.
func RecommendedAction(s models.Severity) string {
	return recommendedActions[s]
}

// HealthScore computes a 0-100 equipment health score. The base score is
// the inverse failure probability scaled to 100, reduced by penalties for
// sensor readings in stress ranges.
func HealthScore(p float64, f models.SensorFeatures) float64 {
	base := (1 - p) * 100

	tempPenalty := math.Max(0, (f.Temperature-100)/100*10)
	vibPenalty := f.Vibration / 2.0 * 5
	pressPenalty := math.Max(0, (f.Pressure-5)/5*5)

	score := base - tempPenalty - vibPenalty - pressPenalty
	return math.Min(100, math.Max(0, score))
}

// ConfidenceFor grades how far the probability sits from the 0.5 decision
// boundary. Probabilities near 0.5 are the least certain.
func ConfidenceFor(p float64) models.Confidence {
	d := math.Abs(p - 0.5)
	switch {
	case d >= 0.3:
		return models.ConfidenceHigh
	case d >= 0.15:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Classify derives the full prediction for a failure probability and
// sensor reading. It is a pure function of its inputs apart from the
// timestamp.
func Classify(equipmentID string, p float64, f models.SensorFeatures, source string) *models.Prediction {
	severity := SeverityFor(p)
	return &models.Prediction{
		EquipmentID:        equipmentID,
		FailureProbability: p,
		Severity:           severity,
		DaysUntilFailure:   LeadDays(severity),
		HealthScore:        HealthScore(p, f),
		Confidence:         ConfidenceFor(p),
		RecommendedAction:  RecommendedAction(severity),
		Source:             source,
		PredictedAt:        time.Now().UTC(),
	}
}
