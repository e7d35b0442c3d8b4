package models

import "testing"

func TestValidateEquipmentID(t *testing.T) {
	valid := []string{"RADAR-001", "SONAR-042", "TANK-A1-003", "GEN-BAY2-100"}
	for _, id := range valid {
		if err := ValidateEquipmentID(id); err != nil {
			t.Errorf("ValidateEquipmentID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "radar-001", "RADAR", "RADAR-01", "RADAR-0001", "RADAR_001", "001-RADAR", "RADAR-001-"}
	for _, id := range invalid {
		if err := ValidateEquipmentID(id); err == nil {
			t.Errorf("ValidateEquipmentID(%q) = nil, want error", id)
		}
	}
}

func TestSensorFeaturesValidate(t *testing.T) {
	good := SensorFeatures{Temperature: 45, Vibration: 0.2, Pressure: 3, Humidity: 40, Voltage: 230}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		features SensorFeatures
		field    string
	}{
		{"temperature too low", SensorFeatures{Temperature: -51}, "temperature"},
		{"temperature too high", SensorFeatures{Temperature: 201}, "temperature"},
		{"vibration negative", SensorFeatures{Vibration: -0.1}, "vibration"},
		{"vibration too high", SensorFeatures{Vibration: 2.1}, "vibration"},
		{"pressure too high", SensorFeatures{Pressure: 10.5}, "pressure"},
		{"humidity too high", SensorFeatures{Humidity: 101}, "humidity"},
		{"voltage too high", SensorFeatures{Voltage: 501}, "voltage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.features.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() returned %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestSensorFeaturesBoundaryValues(t *testing.T) {
	// Readings exactly on a bound are accepted.
	edge := SensorFeatures{Temperature: 200, Vibration: 2, Pressure: 10, Humidity: 100, Voltage: 500}
	if err := edge.Validate(); err != nil {
		t.Errorf("Validate() on upper bounds = %v, want nil", err)
	}
	edge = SensorFeatures{Temperature: -50}
	if err := edge.Validate(); err != nil {
		t.Errorf("Validate() on lower bounds = %v, want nil", err)
	}
}
