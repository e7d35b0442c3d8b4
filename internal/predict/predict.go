// Package predict classifies equipment failure risk from sensor readings,
// calling a remote probability model when one is configured.
package predict

import (
	"context"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin            = (*Module)(nil)
	_ plugin.HTTPProvider      = (*Module)(nil)
	_ roles.PredictionProvider = (*Module)(nil)
)

// Module implements the prediction plugin.
type Module struct {
	logger  *zap.Logger
	cfg     PredictConfig
	bus     plugin.EventBus
	gateway *Gateway // nil when running with the local simulator
}

// New creates a new predict plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "predict",
		Version:     "0.1.0",
		Description: "Equipment failure prediction and severity classification",
		Required:    true,
		Roles:       []string{roles.RolePrediction},
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
	if m.cfg.Timeout <= 0 {
		m.cfg.Timeout = DefaultConfig().Timeout
	}

	if m.cfg.URL != "" {
		m.gateway = NewGateway(m.cfg.URL, m.cfg.Timeout, m.logger.Named("gateway"))
		m.logger.Info("predict module initialized",
			zap.String("mode", "remote"),
			zap.String("url", m.cfg.URL),
			zap.Duration("timeout", m.cfg.Timeout),
		)
	} else {
		m.logger.Info("predict module initialized", zap.String("mode", "simulator"))
	}
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.logger.Info("predict module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	m.logger.Info("predict module stopped")
	return nil
}

// Predict implements roles.PredictionProvider. Inputs are validated
// before any remote call; upstream failures surface as the typed
// ErrUpstream family and never produce a partial prediction.
func (m *Module) Predict(ctx context.Context, equipmentID string, features models.SensorFeatures) (*models.Prediction, error) {
	if err := models.ValidateEquipmentID(equipmentID); err != nil {
		return nil, err
	}
	if err := features.Validate(); err != nil {
		return nil, err
	}

	var (
		p      float64
		source string
	)
	if m.gateway != nil {
		remote, err := m.gateway.FailureProbability(ctx, equipmentID, features)
		if err != nil {
			return nil, err
		}
		p = remote
		source = "ml_prediction"
	} else {
		p = simulateProbability(features)
		source = "simulated"
	}

	pred := Classify(equipmentID, p, features, source)
	predictionsTotal.WithLabelValues(string(pred.Severity)).Inc()

	if m.bus != nil {
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicPredictionGenerated,
			Source:    "predict",
			Timestamp: time.Now().UTC(),
			Payload:   pred,
		})
	}

	return pred, nil
}
