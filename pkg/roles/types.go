package roles

import "github.com/gearguard/gearguard/pkg/models"

// AlertRef carries the alert fields a maintenance planner needs to derive
// a task, without coupling the planner to the alerting plugin's types.
type AlertRef struct {
	ID                 string          `json:"id"`
	EquipmentID        string          `json:"equipment_id"`
	Severity           models.Severity `json:"severity"`
	FailureProbability float64         `json:"failure_probability"`
	DaysUntilFailure   int             `json:"days_until_failure"`
	RecommendedAction  string          `json:"recommended_action"`
}

// AlertNotification is the immutable snapshot of an alert handed to a
// Notifier. The snapshot is taken at enqueue time so later alert updates
// do not change what gets delivered.
type AlertNotification struct {
	AlertID            string            `json:"alert_id"`
	EquipmentID        string            `json:"equipment_id"`
	Severity           models.Severity   `json:"severity"`
	FailureProbability float64           `json:"failure_probability"`
	DaysUntilFailure   int               `json:"days_until_failure"`
	RecommendedAction  string            `json:"recommended_action"`
	HealthScore        float64           `json:"health_score"`
	Confidence         models.Confidence `json:"confidence"`
}
