package alert

import (
	"context"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine drives the alert lifecycle: generation from predictions,
// acknowledgement, and resolution.
type Engine struct {
	store     *AlertStore
	predictor roles.PredictionProvider
	planner   roles.MaintenancePlanner // optional
	notifier  roles.Notifier           // optional
	bus       plugin.EventBus
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates an alert engine. planner and notifier may be nil;
// generation still succeeds without them.
func NewEngine(store *AlertStore, predictor roles.PredictionProvider, planner roles.MaintenancePlanner, notifier roles.Notifier, bus plugin.EventBus, logger *zap.Logger) *Engine {
	return &Engine{
		store:     store,
		predictor: predictor,
		planner:   planner,
		notifier:  notifier,
		bus:       bus,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate runs the full pipeline for one sensor reading: predict,
// classify, and create an alert when the severity warrants one.
//
// A (nil, nil) return means the reading classified below HIGH or an
// equal-or-higher active alert already covers the equipment; both are
// expected outcomes, not errors. Prediction failures return the typed
// upstream error and create nothing.
func (e *Engine) Generate(ctx context.Context, equipmentID string, features models.SensorFeatures) (*Alert, error) {
	pred, err := e.predictor.Predict(ctx, equipmentID, features)
	if err != nil {
		return nil, err
	}

	if !pred.Severity.AtLeast(models.SeverityHigh) {
		e.logger.Debug("no alert needed",
			zap.String("equipment_id", equipmentID),
			zap.String("severity", string(pred.Severity)),
			zap.Float64("failure_probability", pred.FailureProbability),
		)
		noAlertTotal.Inc()
		return nil, nil
	}

	// Suppress when an equal-or-higher active alert already covers the
	// equipment. A more severe reading still raises a new alert.
	active, err := e.store.ListActiveByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		if active[i].Severity.AtLeast(pred.Severity) {
			e.logger.Debug("alert suppressed by existing active alert",
				zap.String("equipment_id", equipmentID),
				zap.String("existing_alert_id", active[i].ID),
				zap.String("existing_severity", string(active[i].Severity)),
				zap.String("new_severity", string(pred.Severity)),
			)
			suppressedTotal.Inc()
			return nil, nil
		}
	}

	now := e.now()
	a := &Alert{
		ID:                 uuid.NewString(),
		EquipmentID:        equipmentID,
		Severity:           pred.Severity,
		FailureProbability: pred.FailureProbability,
		DaysUntilFailure:   pred.DaysUntilFailure,
		RecommendedAction:  pred.RecommendedAction,
		Status:             StatusActive,
		HealthScore:        pred.HealthScore,
		Confidence:         pred.Confidence,
		Source:             pred.Source,
		CreatedAt:          now,
	}

	if err := e.store.InsertAlert(ctx, a); err != nil {
		return nil, err
	}
	alertsCreatedTotal.WithLabelValues(string(a.Severity)).Inc()

	e.logger.Warn("alert created",
		zap.String("alert_id", a.ID),
		zap.String("equipment_id", equipmentID),
		zap.String("severity", string(a.Severity)),
		zap.Float64("failure_probability", a.FailureProbability),
		zap.Int("days_until_failure", a.DaysUntilFailure),
	)

	// Notification and auto-scheduling are best-effort: the alert stands
	// even if either fails.
	if e.notifier != nil {
		jobID, err := e.notifier.EnqueueAlert(ctx, roles.AlertNotification{
			AlertID:            a.ID,
			EquipmentID:        a.EquipmentID,
			Severity:           a.Severity,
			FailureProbability: a.FailureProbability,
			DaysUntilFailure:   a.DaysUntilFailure,
			RecommendedAction:  a.RecommendedAction,
			HealthScore:        a.HealthScore,
			Confidence:         a.Confidence,
		})
		if err != nil {
			e.logger.Error("failed to enqueue alert notification",
				zap.String("alert_id", a.ID),
				zap.Error(err),
			)
		} else {
			e.logger.Debug("notification enqueued",
				zap.String("alert_id", a.ID),
				zap.String("job_id", jobID),
			)
		}
	}

	if e.planner != nil {
		taskID, err := e.planner.ScheduleFromAlert(ctx, roles.AlertRef{
			ID:                 a.ID,
			EquipmentID:        a.EquipmentID,
			Severity:           a.Severity,
			FailureProbability: a.FailureProbability,
			DaysUntilFailure:   a.DaysUntilFailure,
			RecommendedAction:  a.RecommendedAction,
		})
		if err != nil {
			e.logger.Error("failed to auto-schedule maintenance task",
				zap.String("alert_id", a.ID),
				zap.Error(err),
			)
		} else {
			e.logger.Info("maintenance task auto-scheduled",
				zap.String("alert_id", a.ID),
				zap.String("task_id", taskID),
			)
		}
	}

	if e.bus != nil {
		e.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicAlertCreated,
			Source:    "alert",
			Timestamp: now,
			Payload:   a,
		})
	}

	return a, nil
}

// Acknowledge marks an active alert as acknowledged by an operator.
func (e *Engine) Acknowledge(ctx context.Context, id, by, notes string) (*Alert, error) {
	a, err := e.store.Acknowledge(ctx, id, by, notes, e.now())
	if err != nil {
		return nil, err
	}

	e.logger.Info("alert acknowledged",
		zap.String("alert_id", a.ID),
		zap.String("acknowledged_by", by),
	)

	if e.bus != nil {
		e.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicAlertAcknowledged,
			Source:    "alert",
			Timestamp: e.now(),
			Payload:   a,
		})
	}
	return a, nil
}

// Resolve closes an alert from ACTIVE or ACKNOWLEDGED. A resolved alert
// never reopens; a recurring condition raises a fresh alert instead.
func (e *Engine) Resolve(ctx context.Context, id, by, notes string) (*Alert, error) {
	a, err := e.store.Resolve(ctx, id, by, notes, e.now())
	if err != nil {
		return nil, err
	}

	e.logger.Info("alert resolved",
		zap.String("alert_id", a.ID),
		zap.String("resolved_by", by),
	)

	if e.bus != nil {
		e.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicAlertResolved,
			Source:    "alert",
			Timestamp: e.now(),
			Payload:   a,
		})
	}
	return a, nil
}
