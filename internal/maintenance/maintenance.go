// Package maintenance schedules and tracks maintenance work for
// equipment, including tasks auto-scheduled from predictive alerts.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin            = (*Module)(nil)
	_ plugin.HTTPProvider      = (*Module)(nil)
	_ roles.MaintenancePlanner = (*Module)(nil)
)

// Module implements the maintenance plugin.
type Module struct {
	logger *zap.Logger
	cfg    MaintenanceConfig
	store  *TaskStore
	bus    plugin.EventBus
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new maintenance plugin instance.
func New() *Module {
	return &Module{now: func() time.Time { return time.Now().UTC() }}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "maintenance",
		Version:     "0.1.0",
		Description: "Maintenance task scheduling and tracking",
		Required:    true,
		Roles:       []string{roles.RoleMaintenancePlanning},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return err
		}
	}
	if m.cfg.RetentionPeriod <= 0 {
		m.cfg.RetentionPeriod = DefaultConfig().RetentionPeriod
	}
	if m.cfg.MaintenanceInterval <= 0 {
		m.cfg.MaintenanceInterval = DefaultConfig().MaintenanceInterval
	}

	if err := deps.Store.Migrate(ctx, "maintenance", migrations()); err != nil {
		return fmt.Errorf("maintenance migrations: %w", err)
	}
	m.store = NewTaskStore(deps.Store.DB())

	m.logger.Info("maintenance module initialized")
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.startRetention()
	m.logger.Info("maintenance module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.logger.Info("maintenance module stopped")
	return nil
}

// ScheduleFromAlert implements roles.MaintenancePlanner. Scheduling is
// idempotent per alert: a second call while an open auto-task exists
// returns the empty string without creating another task.
func (m *Module) ScheduleFromAlert(ctx context.Context, ref roles.AlertRef) (string, error) {
	exists, err := m.store.HasOpenTaskForAlert(ctx, ref.ID)
	if err != nil {
		return "", err
	}
	if exists {
		m.logger.Debug("open task already exists for alert",
			zap.String("alert_id", ref.ID),
			zap.String("equipment_id", ref.EquipmentID),
		)
		return "", nil
	}

	t := taskFromAlert(ref, m.now())
	if err := m.store.InsertTask(ctx, t); err != nil {
		return "", err
	}
	tasksScheduledTotal.WithLabelValues(SourceAutoAlert).Inc()

	m.logger.Info("maintenance task scheduled from alert",
		zap.String("task_id", t.ID),
		zap.String("alert_id", ref.ID),
		zap.String("equipment_id", t.EquipmentID),
		zap.String("task_type", t.TaskType),
		zap.Time("scheduled_date", t.ScheduledDate),
	)

	m.publish(ctx, TopicTaskScheduled, t)
	return t.ID, nil
}

func (m *Module) publish(ctx context.Context, topic string, t *Task) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "maintenance",
		Timestamp: m.now(),
		Payload:   t,
	})
}

// startRetention launches a background goroutine that periodically
// purges old completed and cancelled tasks.
func (m *Module) startRetention() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.MaintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.runRetention()
			}
		}
	}()
}

func (m *Module) runRetention() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-m.cfg.RetentionPeriod)
	deleted, err := m.store.DeleteOldClosed(ctx, cutoff)
	if err != nil {
		m.logger.Warn("failed to delete old closed tasks", zap.Error(err))
	} else if deleted > 0 {
		m.logger.Info("purged old closed tasks", zap.Int64("count", deleted))
	}
}
