package predict

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "", Handler: m.handlePredict},
	}
}

// PredictRequest is the request body for POST /predict.
type PredictRequest struct {
	EquipmentID string                `json:"equipment_id" example:"RADAR-001"`
	Features    models.SensorFeatures `json:"features"`
}

// handlePredict classifies a sensor reading without creating an alert.
//
//	@Summary		Classify a sensor reading
//	@Description	Returns a failure prediction with severity, health score, and recommended action.
//	@Tags			predict
//	@Accept			json
//	@Produce		json
//	@Param			request body PredictRequest true "Sensor reading"
//	@Success		200 {object} models.Prediction
//	@Failure		400 {object} map[string]any
//	@Failure		502 {object} map[string]any
//	@Router			/predict [post]
func (m *Module) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		predictWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pred, err := m.Predict(r.Context(), req.EquipmentID, req.Features)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			predictWriteError(w, http.StatusBadRequest, verr.Error())
		case errors.Is(err, ErrUpstream):
			predictWriteError(w, http.StatusBadGateway, err.Error())
		default:
			m.logger.Warn("prediction failed", zap.String("equipment_id", req.EquipmentID), zap.Error(err))
			predictWriteError(w, http.StatusInternalServerError, "prediction failed")
		}
		return
	}

	predictWriteJSON(w, http.StatusOK, pred)
}

// -- helpers --

func predictWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func predictWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://gearguard.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
