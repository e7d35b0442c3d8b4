// Package alert manages the predictive alert lifecycle: generation from
// classified sensor readings, acknowledgement, and resolution.
package alert

import (
	"context"
	"fmt"
	"sync"

	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin       = (*Module)(nil)
	_ plugin.HTTPProvider = (*Module)(nil)
	_ roles.AlertProvider = (*Module)(nil)
)

// Module implements the alert plugin.
type Module struct {
	logger *zap.Logger
	cfg    AlertConfig
	store  *AlertStore
	engine *Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new alert plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "alert",
		Version:      "0.1.0",
		Description:  "Predictive alert lifecycle management",
		Dependencies: []string{"predict", "maintenance", "notify"},
		Required:     true,
		Roles:        []string{roles.RoleAlerting},
		APIVersion:   plugin.APIVersionCurrent,
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
	if m.cfg.RetentionPeriod <= 0 {
		m.cfg.RetentionPeriod = DefaultConfig().RetentionPeriod
	}
	if m.cfg.MaintenanceInterval <= 0 {
		m.cfg.MaintenanceInterval = DefaultConfig().MaintenanceInterval
	}

	if err := deps.Store.Migrate(ctx, "alert", migrations()); err != nil {
		return fmt.Errorf("alert migrations: %w", err)
	}
	m.store = NewAlertStore(deps.Store.DB())

	predictor := resolvePredictor(deps.Plugins)
	if predictor == nil {
		return fmt.Errorf("no plugin fills the %q role", roles.RolePrediction)
	}

	// Planner and notifier are optional: alerting degrades gracefully
	// when either plugin is disabled.
	planner := resolvePlanner(deps.Plugins)
	if planner == nil {
		m.logger.Warn("no maintenance planner available; alerts will not auto-schedule tasks")
	}
	notifier := resolveNotifier(deps.Plugins)
	if notifier == nil {
		m.logger.Warn("no notifier available; alerts will not send notifications")
	}

	m.engine = NewEngine(m.store, predictor, planner, notifier, deps.Bus, m.logger)

	m.logger.Info("alert module initialized")
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.startRetention()
	m.logger.Info("alert module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.logger.Info("alert module stopped")
	return nil
}

// ActiveAlertCount implements roles.AlertProvider.
func (m *Module) ActiveAlertCount(ctx context.Context) (int, error) {
	return m.store.CountActive(ctx)
}

func resolvePredictor(resolver plugin.PluginResolver) roles.PredictionProvider {
	for _, p := range resolver.ResolveByRole(roles.RolePrediction) {
		if pp, ok := p.(roles.PredictionProvider); ok {
			return pp
		}
	}
	return nil
}

func resolvePlanner(resolver plugin.PluginResolver) roles.MaintenancePlanner {
	for _, p := range resolver.ResolveByRole(roles.RoleMaintenancePlanning) {
		if mp, ok := p.(roles.MaintenancePlanner); ok {
			return mp
		}
	}
	return nil
}

func resolveNotifier(resolver plugin.PluginResolver) roles.Notifier {
	for _, p := range resolver.ResolveByRole(roles.RoleNotification) {
		if n, ok := p.(roles.Notifier); ok {
			return n
		}
	}
	return nil
}
