package maintenance

import (
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/testutil"
	"github.com/gearguard/gearguard/pkg/models"
)

func TestTaskFromAlertCritical(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ref := testutil.NewAlertRef(testutil.WithSeverity(models.SeverityCritical))

	task := taskFromAlert(ref, now)

	if task.TaskType != TypeEmergency {
		t.Errorf("TaskType = %s, want EMERGENCY", task.TaskType)
	}
	if task.Priority != "CRITICAL" {
		t.Errorf("Priority = %s, want CRITICAL", task.Priority)
	}
	if task.Source != SourceAutoAlert {
		t.Errorf("Source = %s, want auto_alert", task.Source)
	}
	if task.AlertID != ref.ID {
		t.Errorf("AlertID = %q, want %q", task.AlertID, ref.ID)
	}
	// 7 days until failure: scheduled halfway, 3 days out.
	want := now.AddDate(0, 0, 3)
	if !task.ScheduledDate.Equal(want) {
		t.Errorf("ScheduledDate = %v, want %v", task.ScheduledDate, want)
	}
}

func TestTaskFromAlertHigh(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ref := testutil.NewAlertRef(testutil.WithSeverity(models.SeverityHigh))

	task := taskFromAlert(ref, now)

	if task.TaskType != TypePreventive {
		t.Errorf("TaskType = %s, want PREVENTIVE", task.TaskType)
	}
	if task.Priority != "HIGH" {
		t.Errorf("Priority = %s, want HIGH", task.Priority)
	}
	want := now.AddDate(0, 0, 7) // 15 days halved, integer division
	if !task.ScheduledDate.Equal(want) {
		t.Errorf("ScheduledDate = %v, want %v", task.ScheduledDate, want)
	}
	if task.Title != "Address HIGH alert for RADAR-001" {
		t.Errorf("Title = %q", task.Title)
	}
	if task.Description != ref.RecommendedAction {
		t.Errorf("Description = %q, want recommended action", task.Description)
	}
}

func TestTaskFromAlertMinimumLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Failure predicted within a day: still scheduled at least one day out.
	for _, days := range []int{0, 1, 2} {
		ref := testutil.NewAlertRef(
			testutil.WithSeverity(models.SeverityCritical),
			testutil.WithDaysUntilFailure(days),
		)
		task := taskFromAlert(ref, now)
		if task.ScheduledDate.Before(now.AddDate(0, 0, 1)) {
			t.Errorf("days=%d: ScheduledDate = %v, want >= one day out", days, task.ScheduledDate)
		}
	}
}
