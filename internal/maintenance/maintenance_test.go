package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/testutil"
	"github.com/gearguard/gearguard/pkg/models"
	"go.uber.org/zap"
)

func testModule(t *testing.T) *Module {
	t.Helper()
	m := New()
	m.logger = zap.NewNop()
	m.cfg = DefaultConfig()
	m.store = testTaskStore(t)
	return m
}

func TestScheduleFromAlert(t *testing.T) {
	m := testModule(t)
	ctx := context.Background()
	ref := testutil.NewAlertRef(testutil.WithSeverity(models.SeverityCritical))

	taskID, err := m.ScheduleFromAlert(ctx, ref)
	if err != nil {
		t.Fatalf("ScheduleFromAlert() error = %v", err)
	}
	if taskID == "" {
		t.Fatal("ScheduleFromAlert() returned empty task ID")
	}

	task, err := m.store.GetTask(ctx, taskID, time.Now().UTC())
	if err != nil || task == nil {
		t.Fatalf("GetTask() = %v, %v", task, err)
	}
	if task.TaskType != TypeEmergency {
		t.Errorf("TaskType = %s, want EMERGENCY", task.TaskType)
	}
	if task.Source != SourceAutoAlert {
		t.Errorf("Source = %s, want auto_alert", task.Source)
	}
}

func TestScheduleFromAlertIdempotent(t *testing.T) {
	m := testModule(t)
	ctx := context.Background()
	ref := testutil.NewAlertRef()

	first, err := m.ScheduleFromAlert(ctx, ref)
	if err != nil || first == "" {
		t.Fatalf("first ScheduleFromAlert() = %q, %v", first, err)
	}

	// A second call for the same alert creates nothing while the first
	// task is still open.
	second, err := m.ScheduleFromAlert(ctx, ref)
	if err != nil {
		t.Fatalf("second ScheduleFromAlert() error = %v", err)
	}
	if second != "" {
		t.Errorf("second ScheduleFromAlert() = %q, want empty", second)
	}

	// After the task closes, the alert may schedule again.
	if _, err := m.store.Complete(ctx, first, CompletionInput{}, time.Now().UTC()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	third, err := m.ScheduleFromAlert(ctx, ref)
	if err != nil {
		t.Fatalf("third ScheduleFromAlert() error = %v", err)
	}
	if third == "" {
		t.Error("third ScheduleFromAlert() = empty, want new task")
	}
}
