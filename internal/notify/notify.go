// Package notify queues and delivers alert notifications through
// configurable sinks with bounded retry.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin       = (*Module)(nil)
	_ plugin.HTTPProvider = (*Module)(nil)
	_ roles.Notifier      = (*Module)(nil)
)

// Module implements the notify plugin.
type Module struct {
	logger     *zap.Logger
	cfg        NotifyConfig
	store      *JobStore
	dispatcher *Dispatcher
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new notify plugin instance.
func New() *Module {
	return &Module{now: func() time.Time { return time.Now().UTC() }}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "notify",
		Version:     "0.1.0",
		Description: "Alert notification queue and delivery",
		Required:    true,
		Roles:       []string{roles.RoleNotification},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return err
		}
	}
	if m.cfg.Workers <= 0 {
		m.cfg.Workers = DefaultConfig().Workers
	}
	if m.cfg.MaxAttempts <= 0 {
		m.cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if m.cfg.BackoffBase <= 0 {
		m.cfg.BackoffBase = DefaultConfig().BackoffBase
	}
	if m.cfg.PollInterval <= 0 {
		m.cfg.PollInterval = DefaultConfig().PollInterval
	}
	if len(m.cfg.Sinks) == 0 {
		m.cfg.Sinks = DefaultConfig().Sinks
	}

	if err := deps.Store.Migrate(ctx, "notify", migrations()); err != nil {
		return fmt.Errorf("notify migrations: %w", err)
	}
	m.store = NewJobStore(deps.Store.DB())

	sinks, err := m.buildSinks()
	if err != nil {
		return err
	}
	m.dispatcher = NewDispatcher(m.store, sinks, deps.Bus, m.cfg, m.logger)

	m.logger.Info("notify module initialized",
		zap.Int("workers", m.cfg.Workers),
		zap.Int("max_attempts", m.cfg.MaxAttempts),
		zap.Strings("sinks", m.cfg.Sinks),
	)
	return nil
}

func (m *Module) buildSinks() ([]Sink, error) {
	var sinks []Sink
	for _, name := range m.cfg.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, NewLogSink(m.logger))
		case "webhook":
			if m.cfg.Webhook.URL == "" {
				return nil, fmt.Errorf("webhook sink enabled but no URL configured")
			}
			sinks = append(sinks, NewWebhookSink(m.cfg.Webhook))
		case "email":
			if m.cfg.Email.Host == "" {
				return nil, fmt.Errorf("email sink enabled but no SMTP host configured")
			}
			sinks = append(sinks, NewEmailSink(m.cfg.Email))
		default:
			return nil, fmt.Errorf("unknown notification sink %q", name)
		}
	}
	return sinks, nil
}

func (m *Module) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	recoverCtx, cancel := context.WithTimeout(m.ctx, 10*time.Second)
	defer cancel()
	if n, err := m.store.ResetStuck(recoverCtx, m.now()); err != nil {
		m.logger.Warn("failed to recover in-flight jobs", zap.Error(err))
	} else if n > 0 {
		m.logger.Info("requeued in-flight jobs from previous run", zap.Int64("count", n))
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.dispatcher.Run(m.ctx)
	}()

	m.logger.Info("notify module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.logger.Info("notify module stopped")
	return nil
}

// EnqueueAlert implements roles.Notifier. The notification snapshot is
// persisted immediately and delivered asynchronously by the worker
// pool, so callers never block on a slow sink.
func (m *Module) EnqueueAlert(ctx context.Context, n roles.AlertNotification) (string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}

	now := m.now()
	j := &Job{
		ID:            uuid.NewString(),
		AlertID:       n.AlertID,
		EquipmentID:   n.EquipmentID,
		Severity:      string(n.Severity),
		Payload:       string(payload),
		Status:        StatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
	if err := m.store.InsertJob(ctx, j); err != nil {
		return "", err
	}

	m.logger.Debug("notification job enqueued",
		zap.String("job_id", j.ID),
		zap.String("alert_id", n.AlertID),
	)
	return j.ID, nil
}
