package models

import "testing"

func TestSeverityAtLeast(t *testing.T) {
	tests := []struct {
		s     Severity
		other Severity
		want  bool
	}{
		{SeverityCritical, SeverityHigh, true},
		{SeverityCritical, SeverityCritical, true},
		{SeverityHigh, SeverityCritical, false},
		{SeverityHigh, SeverityHigh, true},
		{SeverityMedium, SeverityHigh, false},
		{SeverityLow, SeverityLow, true},
	}
	for _, tt := range tests {
		if got := tt.s.AtLeast(tt.other); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.s, tt.other, got, tt.want)
		}
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false, want true", s)
		}
	}
	if Severity("URGENT").Valid() {
		t.Error(`Severity("URGENT").Valid() = true, want false`)
	}
}
