package maintenance

import (
	"fmt"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/roles"
	"github.com/google/uuid"
)

// taskFromAlert builds an auto-scheduled maintenance task for an alert.
// The task is scheduled halfway to the predicted failure date, at least
// one day out, so the work lands before the equipment fails.
func taskFromAlert(ref roles.AlertRef, now time.Time) *Task {
	taskType := TypePreventive
	if ref.Severity == models.SeverityCritical {
		taskType = TypeEmergency
	}

	leadDays := ref.DaysUntilFailure / 2
	if leadDays < 1 {
		leadDays = 1
	}

	return &Task{
		ID:            uuid.NewString(),
		EquipmentID:   ref.EquipmentID,
		AlertID:       ref.ID,
		Title:         fmt.Sprintf("Address %s alert for %s", ref.Severity, ref.EquipmentID),
		Description:   ref.RecommendedAction,
		TaskType:      taskType,
		Priority:      string(ref.Severity),
		Status:        StatusScheduled,
		ScheduledDate: now.AddDate(0, 0, leadDays),
		Source:        SourceAutoAlert,
		CreatedAt:     now,
	}
}
