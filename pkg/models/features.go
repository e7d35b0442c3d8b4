package models

import (
	"fmt"
	"regexp"
)

// Sensor reading bounds. Readings outside these ranges indicate a faulty
// sensor or a malformed request and are rejected before classification.
const (
	TemperatureMin = -50.0 // Celsius
	TemperatureMax = 200.0
	VibrationMin   = 0.0 // mm/s
	VibrationMax   = 2.0
	PressureMin    = 0.0 // bar
	PressureMax    = 10.0
	HumidityMin    = 0.0 // percent
	HumidityMax    = 100.0
	VoltageMin     = 0.0 // volts
	VoltageMax     = 500.0
)

// equipmentIDPattern matches IDs like "RADAR-001" or "SONAR-BAY2-042".
var equipmentIDPattern = regexp.MustCompile(`^[A-Z]+(-[A-Z0-9]+)*-\d{3}$`)

// SensorFeatures is a single equipment sensor reading. Humidity and
// Voltage are optional and default to zero when not reported.
type SensorFeatures struct {
	Temperature float64 `json:"temperature"`
	Vibration   float64 `json:"vibration"`
	Pressure    float64 `json:"pressure"`
	Humidity    float64 `json:"humidity,omitempty"`
	Voltage     float64 `json:"voltage,omitempty"`
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateEquipmentID checks the equipment identifier format.
func ValidateEquipmentID(id string) error {
	if id == "" {
		return &ValidationError{Field: "equipment_id", Reason: "must not be empty"}
	}
	if !equipmentIDPattern.MatchString(id) {
		return &ValidationError{Field: "equipment_id", Reason: "must match pattern TYPE[-UNIT]-NNN, e.g. RADAR-001"}
	}
	return nil
}

// Validate checks all sensor readings against their physical bounds.
func (f SensorFeatures) Validate() error {
	if f.Temperature < TemperatureMin || f.Temperature > TemperatureMax {
		return &ValidationError{Field: "temperature", Reason: fmt.Sprintf("must be between %.0f and %.0f C", TemperatureMin, TemperatureMax)}
	}
	if f.Vibration < VibrationMin || f.Vibration > VibrationMax {
		return &ValidationError{Field: "vibration", Reason: fmt.Sprintf("must be between %.0f and %.0f mm/s", VibrationMin, VibrationMax)}
	}
	if f.Pressure < PressureMin || f.Pressure > PressureMax {
		return &ValidationError{Field: "pressure", Reason: fmt.Sprintf("must be between %.0f and %.0f bar", PressureMin, PressureMax)}
	}
	if f.Humidity < HumidityMin || f.Humidity > HumidityMax {
		return &ValidationError{Field: "humidity", Reason: fmt.Sprintf("must be between %.0f and %.0f percent", HumidityMin, HumidityMax)}
	}
	if f.Voltage < VoltageMin || f.Voltage > VoltageMax {
		return &ValidationError{Field: "voltage", Reason: fmt.Sprintf("must be between %.0f and %.0f V", VoltageMin, VoltageMax)}
	}
	return nil
}
