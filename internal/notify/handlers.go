package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/jobs/{id}", Handler: m.handleGetJob},
		{Method: "GET", Path: "/failed", Handler: m.handleListFailed},
		{Method: "POST", Path: "/failed/{id}/retry", Handler: m.handleRetry},
	}
}

// handleGetJob returns a notification job by ID.
//
//	@Summary		Get notification job
//	@Description	Returns a single notification job by ID.
//	@Tags			notify
//	@Produce		json
//	@Param			id path string true "Job ID"
//	@Success		200 {object} Job
//	@Failure		404 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/notify/jobs/{id} [get]
func (m *Module) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, err := m.store.GetJob(r.Context(), id)
	if err != nil {
		m.logger.Warn("failed to get notification job", zap.String("job_id", id), zap.Error(err))
		notifyWriteError(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if j == nil {
		notifyWriteError(w, http.StatusNotFound, "job not found")
		return
	}
	notifyWriteJSON(w, http.StatusOK, j)
}

// handleListFailed returns jobs parked in the failure queue.
//
//	@Summary		Failed notifications
//	@Description	Returns notification jobs that exhausted their delivery attempts.
//	@Tags			notify
//	@Produce		json
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Job
//	@Failure		500 {object} map[string]any
//	@Router			/notify/failed [get]
func (m *Module) handleListFailed(w http.ResponseWriter, r *http.Request) {
	limit := notifyParseLimit(r, 100)

	jobs, err := m.store.ListFailed(r.Context(), limit)
	if err != nil {
		m.logger.Warn("failed to list failed jobs", zap.Error(err))
		notifyWriteError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []Job{}
	}
	notifyWriteJSON(w, http.StatusOK, jobs)
}

// handleRetry requeues a failed job with a fresh attempt budget.
//
//	@Summary		Retry failed notification
//	@Description	Moves a FAILED job back to PENDING with a fresh attempt budget.
//	@Tags			notify
//	@Produce		json
//	@Param			id path string true "Job ID"
//	@Success		200 {object} Job
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/notify/failed/{id}/retry [post]
func (m *Module) handleRetry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	j, err := m.store.Requeue(r.Context(), id, m.now())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			notifyWriteError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, ErrNotFailed):
			notifyWriteError(w, http.StatusConflict, err.Error())
		default:
			m.logger.Warn("failed to requeue job", zap.String("job_id", id), zap.Error(err))
			notifyWriteError(w, http.StatusInternalServerError, "failed to requeue job")
		}
		return
	}

	m.logger.Info("failed notification requeued", zap.String("job_id", j.ID))
	notifyWriteJSON(w, http.StatusOK, j)
}

// -- helpers --

func notifyWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func notifyWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://gearguard.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func notifyParseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}
