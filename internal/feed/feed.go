// Package feed streams pipeline events to websocket subscribers. The
// feed is fire-and-forget: delivery failures never affect the pipeline.
package feed

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gearguard/gearguard/internal/alert"
	"github.com/gearguard/gearguard/internal/maintenance"
	"github.com/gearguard/gearguard/internal/notify"
	"github.com/gearguard/gearguard/internal/predict"
	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.HTTPProvider    = (*Module)(nil)
	_ plugin.EventSubscriber = (*Module)(nil)
)

// Module implements the feed plugin.
type Module struct {
	logger *zap.Logger
	cfg    FeedConfig
	hub    *Hub
}

// New creates a new feed plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "feed",
		Version:     "0.1.0",
		Description: "Live websocket feed of pipeline events",
		Roles:       []string{roles.RoleFeed},
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
	if m.cfg.SendBuffer <= 0 {
		m.cfg.SendBuffer = DefaultConfig().SendBuffer
	}

	m.hub = NewHub(m.logger, m.cfg.SendBuffer)

	m.logger.Info("feed module initialized")
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.logger.Info("feed module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	m.hub.CloseAll()
	m.logger.Info("feed module stopped")
	return nil
}

// Subscriptions implements plugin.EventSubscriber. Every pipeline
// event is relayed to connected subscribers as-is.
func (m *Module) Subscriptions() []plugin.Subscription {
	topics := []string{
		predict.TopicPredictionGenerated,
		alert.TopicAlertCreated,
		alert.TopicAlertAcknowledged,
		alert.TopicAlertResolved,
		maintenance.TopicTaskScheduled,
		maintenance.TopicTaskStarted,
		maintenance.TopicTaskCompleted,
		maintenance.TopicTaskCancelled,
		notify.TopicDelivered,
		notify.TopicDeliveryExhausted,
	}

	subs := make([]plugin.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, plugin.Subscription{
			Topic:   topic,
			Handler: m.relay,
		})
	}
	return subs
}

// relay pushes a bus event to all websocket subscribers.
func (m *Module) relay(ctx context.Context, event plugin.Event) {
	if m.hub.ClientCount() == 0 {
		return
	}
	m.hub.Broadcast(encode(Envelope{
		Type:      event.Topic,
		Timestamp: event.Timestamp,
		Data:      event.Payload,
	}))
}

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/ws", Handler: m.handleWS},
		{Method: "GET", Path: "/stats", Handler: m.handleStats},
	}
}

// handleWS upgrades the connection and streams feed events until the
// client disconnects.
//
//	@Summary		Event feed websocket
//	@Description	Streams pipeline events (predictions, alerts, tasks, deliveries) as JSON envelopes.
//	@Tags			feed
//	@Success		101
//	@Router			/feed/ws [get]
func (m *Module) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The API is expected to sit behind a reverse proxy that
		// enforces origin policy.
		InsecureSkipVerify: true,
	})
	if err != nil {
		m.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}

	m.logger.Debug("feed client connected", zap.String("remote", r.RemoteAddr))
	m.hub.serve(r.Context(), conn)
	m.logger.Debug("feed client disconnected", zap.String("remote", r.RemoteAddr))
}

// handleStats reports feed connection stats.
//
//	@Summary		Feed stats
//	@Description	Returns the number of connected feed subscribers.
//	@Tags			feed
//	@Produce		json
//	@Success		200 {object} map[string]int
//	@Router			/feed/stats [get]
func (m *Module) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]int{"clients": m.hub.ClientCount()})
}
