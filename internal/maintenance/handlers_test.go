package maintenance

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestValidTaskType(t *testing.T) {
	tests := []struct {
		taskType string
		want     bool
	}{
		{TypeEmergency, true},
		{TypePreventive, true},
		{TypeCorrective, true},
		{TypeRoutine, true},
		{"ROUTINE", true},
		{"INSPECTION", false},
		{"routine", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validTaskType(tt.taskType); got != tt.want {
			t.Errorf("validTaskType(%q) = %v, want %v", tt.taskType, got, tt.want)
		}
	}
}

func TestHandleLeadTimes(t *testing.T) {
	m := &Module{}
	rec := httptest.NewRecorder()
	m.handleLeadTimes(rec, httptest.NewRequest("GET", "/lead-times", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []LeadTime
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]int{"CRITICAL": 7, "HIGH": 15, "MEDIUM": 30, "LOW": 60}
	if len(got) != len(want) {
		t.Fatalf("got %d tiers, want %d", len(got), len(want))
	}
	for _, lt := range got {
		if want[lt.Priority] != lt.LeadDays {
			t.Errorf("lead days for %s = %d, want %d", lt.Priority, lt.LeadDays, want[lt.Priority])
		}
	}
	if got[0].Priority != "CRITICAL" {
		t.Errorf("first tier = %s, want CRITICAL", got[0].Priority)
	}
}
