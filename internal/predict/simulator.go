package predict

import (
	"math"

	"github.com/gearguard/gearguard/pkg/models"
)

// simulateProbability estimates a failure probability from sensor stress
// when no remote model is configured. Each reading contributes in
// proportion to how far it sits into its stress range. Used for demo
// deployments and local development only.
func simulateProbability(f models.SensorFeatures) float64 {
	var p float64

	// Temperature above 80 C ramps toward failure.
	if f.Temperature > 80 {
		p += math.Min(0.4, (f.Temperature-80)/120*0.4)
	}

	// Vibration uses the full 0-2 mm/s range.
	p += f.Vibration / models.VibrationMax * 0.35

	// Pressure above 5 bar ramps toward failure.
	if f.Pressure > 5 {
		p += math.Min(0.25, (f.Pressure-5)/5*0.25)
	}

	return math.Min(1, math.Max(0, p))
}
