package predict

import (
	"context"
	"testing"

	"github.com/gearguard/gearguard/internal/testutil"
	"github.com/gearguard/gearguard/pkg/models"
	"go.uber.org/zap"
)

func TestSimulateProbability(t *testing.T) {
	// Healthy equipment stays low risk.
	p := simulateProbability(testutil.HealthyFeatures())
	if p > 0.1 {
		t.Errorf("simulateProbability(healthy) = %v, want <= 0.1", p)
	}

	// Maxed-out stress saturates at 1.0.
	worst := models.SensorFeatures{Temperature: 200, Vibration: 2, Pressure: 10}
	if p := simulateProbability(worst); p != 1 {
		t.Errorf("simulateProbability(worst) = %v, want 1", p)
	}

	// Higher stress never lowers the probability.
	mild := testutil.HealthyFeatures(testutil.WithTemperature(90))
	hot := testutil.HealthyFeatures(testutil.WithTemperature(150))
	if simulateProbability(hot) < simulateProbability(mild) {
		t.Error("probability decreased as temperature rose")
	}
}

func TestModulePredictValidation(t *testing.T) {
	m := New()
	m.logger = zap.NewNop()
	m.cfg = DefaultConfig()

	_, err := m.Predict(context.Background(), "bad id", testutil.HealthyFeatures())
	if err == nil {
		t.Fatal("Predict() with invalid equipment ID returned nil error")
	}
	if _, ok := err.(*models.ValidationError); !ok {
		t.Errorf("error type = %T, want *models.ValidationError", err)
	}

	_, err = m.Predict(context.Background(), "RADAR-001", models.SensorFeatures{Temperature: 500})
	if err == nil {
		t.Fatal("Predict() with out-of-range reading returned nil error")
	}
}

func TestModulePredictSimulated(t *testing.T) {
	m := New()
	m.logger = zap.NewNop()
	m.cfg = DefaultConfig()

	pred, err := m.Predict(context.Background(), "RADAR-001", testutil.HealthyFeatures())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if pred.Source != "simulated" {
		t.Errorf("Source = %q, want simulated", pred.Source)
	}
	if pred.Severity != models.SeverityLow {
		t.Errorf("Severity = %s, want LOW", pred.Severity)
	}
}
