package alert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gearguard/gearguard/internal/predict"
	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/generate", Handler: m.handleGenerate},
		{Method: "GET", Path: "/active", Handler: m.handleListActive},
		{Method: "GET", Path: "/equipment/{equipment_id}", Handler: m.handleListByEquipment},
		{Method: "GET", Path: "/{id}", Handler: m.handleGetAlert},
		{Method: "POST", Path: "/{id}/acknowledge", Handler: m.handleAcknowledge},
		{Method: "POST", Path: "/{id}/resolve", Handler: m.handleResolve},
	}
}

// GenerateRequest is the request body for POST /alert/generate.
type GenerateRequest struct {
	EquipmentID string                `json:"equipment_id" example:"RADAR-001"`
	Features    models.SensorFeatures `json:"features"`
}

// GenerateResponse wraps the generation outcome. Alert is null when the
// reading did not warrant one.
type GenerateResponse struct {
	AlertCreated bool   `json:"alert_created"`
	Reason       string `json:"reason,omitempty"`
	Alert        *Alert `json:"alert,omitempty"`
}

// ActionRequest is the request body for acknowledge and resolve.
type ActionRequest struct {
	By    string `json:"by" example:"operator.singh"`
	Notes string `json:"notes,omitempty"`
}

// handleGenerate runs the prediction pipeline for a sensor reading.
//
//	@Summary		Generate an alert from a sensor reading
//	@Description	Classifies the reading and creates an alert when severity is HIGH or CRITICAL.
//	@Tags			alert
//	@Accept			json
//	@Produce		json
//	@Param			request body GenerateRequest true "Sensor reading"
//	@Success		200 {object} GenerateResponse
//	@Success		201 {object} GenerateResponse
//	@Failure		400 {object} map[string]any
//	@Failure		502 {object} map[string]any
//	@Router			/alert/generate [post]
func (m *Module) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		alertWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := m.engine.Generate(r.Context(), req.EquipmentID, req.Features)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			alertWriteError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, predict.ErrUpstream):
			alertWriteError(w, http.StatusBadGateway, err.Error())
		default:
			m.logger.Error("alert generation failed",
				zap.String("equipment_id", req.EquipmentID),
				zap.Error(err),
			)
			alertWriteError(w, http.StatusInternalServerError, "alert generation failed")
		}
		return
	}

	if a == nil {
		alertWriteJSON(w, http.StatusOK, GenerateResponse{
			AlertCreated: false,
			Reason:       "severity below threshold or covered by an existing active alert",
		})
		return
	}
	alertWriteJSON(w, http.StatusCreated, GenerateResponse{AlertCreated: true, Alert: a})
}

// handleListActive returns active alerts, newest first.
//
//	@Summary		List active alerts
//	@Description	Returns active alerts, optionally filtered by severity.
//	@Tags			alert
//	@Produce		json
//	@Param			severity query string false "Severity filter (CRITICAL, HIGH, MEDIUM, LOW)"
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Alert
//	@Failure		400 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/alert/active [get]
func (m *Module) handleListActive(w http.ResponseWriter, r *http.Request) {
	severity := models.Severity(r.URL.Query().Get("severity"))
	if severity != "" && !severity.Valid() {
		alertWriteError(w, http.StatusBadRequest, "invalid severity filter")
		return
	}
	limit := alertParseLimit(r, 100)

	alerts, err := m.store.ListActive(r.Context(), severity, limit)
	if err != nil {
		m.logger.Warn("failed to list active alerts", zap.Error(err))
		alertWriteError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	alertWriteJSON(w, http.StatusOK, alerts)
}

// handleListByEquipment returns alerts for a piece of equipment.
//
//	@Summary		Equipment alerts
//	@Description	Returns alerts for a specific piece of equipment, optionally filtered by status.
//	@Tags			alert
//	@Produce		json
//	@Param			equipment_id path string true "Equipment ID"
//	@Param			status query string false "Status filter (ACTIVE, ACKNOWLEDGED, RESOLVED)"
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Alert
//	@Failure		500 {object} map[string]any
//	@Router			/alert/equipment/{equipment_id} [get]
func (m *Module) handleListByEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID := r.PathValue("equipment_id")
	if equipmentID == "" {
		alertWriteError(w, http.StatusBadRequest, "equipment_id is required")
		return
	}
	status := r.URL.Query().Get("status")
	limit := alertParseLimit(r, 100)

	alerts, err := m.store.ListByEquipment(r.Context(), equipmentID, status, limit)
	if err != nil {
		m.logger.Warn("failed to list equipment alerts",
			zap.String("equipment_id", equipmentID),
			zap.Error(err),
		)
		alertWriteError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if alerts == nil {
		alerts = []Alert{}
	}
	alertWriteJSON(w, http.StatusOK, alerts)
}

// handleGetAlert returns a single alert by ID.
//
//	@Summary		Get alert
//	@Description	Returns a single alert by ID.
//	@Tags			alert
//	@Produce		json
//	@Param			id path string true "Alert ID"
//	@Success		200 {object} Alert
//	@Failure		404 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/alert/{id} [get]
func (m *Module) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	a, err := m.store.GetAlert(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get alert", zap.String("alert_id", id), zap.Error(err))
		alertWriteError(w, http.StatusInternalServerError, "failed to get alert")
		return
	}
	if a == nil {
		alertWriteError(w, http.StatusNotFound, "alert not found")
		return
	}
	alertWriteJSON(w, http.StatusOK, a)
}

// handleAcknowledge acknowledges an active alert.
//
//	@Summary		Acknowledge alert
//	@Description	Transitions an ACTIVE alert to ACKNOWLEDGED.
//	@Tags			alert
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Alert ID"
//	@Param			request body ActionRequest true "Operator and optional notes"
//	@Success		200 {object} Alert
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/alert/{id}/acknowledge [post]
func (m *Module) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	m.handleTransition(w, r, m.engine.Acknowledge)
}

// handleResolve resolves an alert.
//
//	@Summary		Resolve alert
//	@Description	Transitions an ACTIVE or ACKNOWLEDGED alert to RESOLVED. Resolution notes are appended.
//	@Tags			alert
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Alert ID"
//	@Param			request body ActionRequest true "Operator and optional notes"
//	@Success		200 {object} Alert
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/alert/{id}/resolve [post]
func (m *Module) handleResolve(w http.ResponseWriter, r *http.Request) {
	m.handleTransition(w, r, m.engine.Resolve)
}

func (m *Module) handleTransition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, by, notes string) (*Alert, error)) {
	id := r.PathValue("id")
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		alertWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.By == "" {
		alertWriteError(w, http.StatusBadRequest, "by is required")
		return
	}

	a, err := fn(r.Context(), id, req.By, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			alertWriteError(w, http.StatusNotFound, "alert not found")
		case errors.Is(err, ErrInvalidTransition):
			alertWriteError(w, http.StatusConflict, err.Error())
		default:
			m.logger.Warn("alert transition failed", zap.String("alert_id", id), zap.Error(err))
			alertWriteError(w, http.StatusInternalServerError, "alert update failed")
		}
		return
	}
	alertWriteJSON(w, http.StatusOK, a)
}

// -- helpers --

func alertWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func alertWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://gearguard.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func alertParseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}
