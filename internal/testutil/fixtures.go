package testutil

import (
	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/roles"
	"github.com/google/uuid"
)

// HealthyFeatures returns a SensorFeatures reading for equipment in
// good condition, suitable as a test fixture baseline. Override
// individual fields with options as needed.
func HealthyFeatures(opts ...func(*models.SensorFeatures)) models.SensorFeatures {
	f := models.SensorFeatures{
		Temperature: 45,
		Vibration:   0.2,
		Pressure:    3.0,
		Humidity:    40,
		Voltage:     230,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// WithTemperature sets the temperature reading.
func WithTemperature(t float64) func(*models.SensorFeatures) {
	return func(f *models.SensorFeatures) { f.Temperature = t }
}

// WithVibration sets the vibration reading.
func WithVibration(v float64) func(*models.SensorFeatures) {
	return func(f *models.SensorFeatures) { f.Vibration = v }
}

// WithPressure sets the pressure reading.
func WithPressure(p float64) func(*models.SensorFeatures) {
	return func(f *models.SensorFeatures) { f.Pressure = p }
}

// WithHumidity sets the humidity reading.
func WithHumidity(h float64) func(*models.SensorFeatures) {
	return func(f *models.SensorFeatures) { f.Humidity = h }
}

// WithVoltage sets the voltage reading.
func WithVoltage(v float64) func(*models.SensorFeatures) {
	return func(f *models.SensorFeatures) { f.Voltage = v }
}

// NewAlertRef returns an AlertRef with sensible defaults for a HIGH
// severity alert.
func NewAlertRef(opts ...func(*roles.AlertRef)) roles.AlertRef {
	ref := roles.AlertRef{
		ID:                 uuid.NewString(),
		EquipmentID:        "RADAR-001",
		Severity:           models.SeverityHigh,
		FailureProbability: 0.7,
		DaysUntilFailure:   15,
		RecommendedAction:  "Schedule maintenance within 2 weeks",
	}
	for _, opt := range opts {
		opt(&ref)
	}
	return ref
}

// WithSeverity sets the alert severity and failure probability to a
// representative value for that tier.
func WithSeverity(s models.Severity) func(*roles.AlertRef) {
	return func(ref *roles.AlertRef) {
		ref.Severity = s
		switch s {
		case models.SeverityCritical:
			ref.FailureProbability = 0.9
			ref.DaysUntilFailure = 7
		case models.SeverityHigh:
			ref.FailureProbability = 0.7
			ref.DaysUntilFailure = 15
		case models.SeverityMedium:
			ref.FailureProbability = 0.5
			ref.DaysUntilFailure = 30
		default:
			ref.FailureProbability = 0.2
			ref.DaysUntilFailure = 60
		}
	}
}

// WithEquipment sets the equipment ID.
func WithEquipment(id string) func(*roles.AlertRef) {
	return func(ref *roles.AlertRef) { ref.EquipmentID = id }
}

// WithDaysUntilFailure sets the predicted days until failure.
func WithDaysUntilFailure(days int) func(*roles.AlertRef) {
	return func(ref *roles.AlertRef) { ref.DaysUntilFailure = days }
}
