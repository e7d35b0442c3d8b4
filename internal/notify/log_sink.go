package notify

import (
	"context"

	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// LogSink writes notifications to the application log. It is the
// default sink and never fails.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, n roles.AlertNotification) error {
	s.logger.Warn("equipment alert notification",
		zap.String("alert_id", n.AlertID),
		zap.String("equipment_id", n.EquipmentID),
		zap.String("severity", string(n.Severity)),
		zap.Float64("failure_probability", n.FailureProbability),
		zap.Int("days_until_failure", n.DaysUntilFailure),
		zap.Float64("health_score", n.HealthScore),
		zap.String("confidence", string(n.Confidence)),
		zap.String("recommended_action", n.RecommendedAction),
	)
	return nil
}
