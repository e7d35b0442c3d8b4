// Package roles defines typed contracts for plugin roles.
// Plugins that fill a role (declared via PluginInfo.Roles) should implement
// the corresponding interface so callers can use type-safe access via
// PluginResolver.ResolveByRole followed by a type assertion.
package roles

import (
	"context"

	"github.com/gearguard/gearguard/pkg/models"
)

// Role name constants match the strings used in PluginInfo.Roles.
const (
	RolePrediction          = "prediction"
	RoleAlerting            = "alerting"
	RoleMaintenancePlanning = "maintenance_planning"
	RoleNotification        = "notification"
	RoleFeed                = "feed"
)

// PredictionProvider is implemented by plugins that classify equipment
// failure risk from sensor readings.
type PredictionProvider interface {
	// Predict returns a classified failure prediction for the equipment.
	Predict(ctx context.Context, equipmentID string, features models.SensorFeatures) (*models.Prediction, error)
}

// AlertProvider is implemented by plugins that manage the alert lifecycle.
type AlertProvider interface {
	// ActiveAlertCount returns the number of currently active alerts.
	ActiveAlertCount(ctx context.Context) (int, error)
}

// MaintenancePlanner is implemented by plugins that schedule maintenance
// tasks. ScheduleFromAlert derives a task from an alert and returns the
// created task ID.
type MaintenancePlanner interface {
	ScheduleFromAlert(ctx context.Context, alert AlertRef) (string, error)
}

// Notifier is implemented by plugins that deliver alert notifications.
// EnqueueAlert is non-blocking: it durably queues the notification and
// returns the job ID. Delivery happens asynchronously.
type Notifier interface {
	EnqueueAlert(ctx context.Context, n AlertNotification) (string, error)
}
