package maintenance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gearguard/gearguard/internal/predict"
	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/plugin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "", Handler: m.handleCreateTask},
		{Method: "GET", Path: "/upcoming", Handler: m.handleListUpcoming},
		{Method: "GET", Path: "/overdue", Handler: m.handleListOverdue},
		{Method: "GET", Path: "/lead-times", Handler: m.handleLeadTimes},
		{Method: "GET", Path: "/equipment/{equipment_id}", Handler: m.handleListByEquipment},
		{Method: "GET", Path: "/{id}", Handler: m.handleGetTask},
		{Method: "POST", Path: "/{id}/start", Handler: m.handleStart},
		{Method: "POST", Path: "/{id}/complete", Handler: m.handleComplete},
		{Method: "POST", Path: "/{id}/cancel", Handler: m.handleCancel},
	}
}

// CreateTaskRequest is the request body for POST /maintenance.
type CreateTaskRequest struct {
	EquipmentID            string    `json:"equipment_id" example:"RADAR-001"`
	Title                  string    `json:"title"`
	Description            string    `json:"description,omitempty"`
	TaskType               string    `json:"task_type" example:"PREVENTIVE"`
	Priority               string    `json:"priority" example:"MEDIUM"`
	ScheduledDate          time.Time `json:"scheduled_date"`
	AssignedTo             string    `json:"assigned_to,omitempty"`
	EstimatedDurationHours float64   `json:"estimated_duration_hours,omitempty"`
	EstimatedCost          float64   `json:"estimated_cost,omitempty"`
}

func validTaskType(t string) bool {
	switch t {
	case TypeEmergency, TypePreventive, TypeCorrective, TypeRoutine:
		return true
	}
	return false
}

// handleCreateTask creates a manually scheduled maintenance task.
//
//	@Summary		Create maintenance task
//	@Description	Creates a manually scheduled maintenance task.
//	@Tags			maintenance
//	@Accept			json
//	@Produce		json
//	@Param			request body CreateTaskRequest true "Task to schedule"
//	@Success		201 {object} Task
//	@Failure		400 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/maintenance [post]
func (m *Module) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		maintWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := models.ValidateEquipmentID(req.EquipmentID); err != nil {
		maintWriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" {
		maintWriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validTaskType(req.TaskType) {
		maintWriteError(w, http.StatusBadRequest, "invalid task_type")
		return
	}
	if !models.Severity(req.Priority).Valid() {
		maintWriteError(w, http.StatusBadRequest, "invalid priority")
		return
	}
	if req.ScheduledDate.IsZero() {
		maintWriteError(w, http.StatusBadRequest, "scheduled_date is required")
		return
	}

	now := m.now()
	t := &Task{
		ID:                     uuid.NewString(),
		EquipmentID:            req.EquipmentID,
		Title:                  req.Title,
		Description:            req.Description,
		TaskType:               req.TaskType,
		Priority:               req.Priority,
		Status:                 StatusScheduled,
		ScheduledDate:          req.ScheduledDate.UTC(),
		AssignedTo:             req.AssignedTo,
		EstimatedDurationHours: req.EstimatedDurationHours,
		EstimatedCost:          req.EstimatedCost,
		Source:                 SourceManual,
		CreatedAt:              now,
	}
	if err := m.store.InsertTask(r.Context(), t); err != nil {
		m.logger.Warn("failed to create task", zap.Error(err))
		maintWriteError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	tasksScheduledTotal.WithLabelValues(SourceManual).Inc()

	m.logger.Info("maintenance task created",
		zap.String("task_id", t.ID),
		zap.String("equipment_id", t.EquipmentID),
	)
	m.publish(r.Context(), TopicTaskScheduled, t)
	maintWriteJSON(w, http.StatusCreated, t)
}

// handleListUpcoming returns open tasks due within the horizon.
//
//	@Summary		Upcoming tasks
//	@Description	Returns open tasks scheduled within the next N days, including any already overdue.
//	@Tags			maintenance
//	@Produce		json
//	@Param			days query int false "Horizon in days" default(30)
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Task
//	@Failure		500 {object} map[string]any
//	@Router			/maintenance/upcoming [get]
func (m *Module) handleListUpcoming(w http.ResponseWriter, r *http.Request) {
	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}
	limit := maintParseLimit(r, 100)

	tasks, err := m.store.ListUpcoming(r.Context(), time.Duration(days)*24*time.Hour, limit, m.now())
	if err != nil {
		m.logger.Warn("failed to list upcoming tasks", zap.Error(err))
		maintWriteError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	maintWriteJSON(w, http.StatusOK, tasks)
}

// handleListOverdue returns scheduled tasks past their scheduled date.
//
//	@Summary		Overdue tasks
//	@Description	Returns scheduled tasks whose scheduled date has passed.
//	@Tags			maintenance
//	@Produce		json
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Task
//	@Failure		500 {object} map[string]any
//	@Router			/maintenance/overdue [get]
func (m *Module) handleListOverdue(w http.ResponseWriter, r *http.Request) {
	limit := maintParseLimit(r, 100)

	tasks, err := m.store.ListOverdue(r.Context(), limit, m.now())
	if err != nil {
		m.logger.Warn("failed to list overdue tasks", zap.Error(err))
		maintWriteError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	maintWriteJSON(w, http.StatusOK, tasks)
}

// LeadTime pairs a priority tier with its expected days until failure.
type LeadTime struct {
	Priority string `json:"priority" example:"CRITICAL"`
	LeadDays int    `json:"lead_days" example:"7"`
}

// leadTimes returns the priority tiers with their failure lead estimates,
// highest priority first. Auto tasks are scheduled at half these leads.
func leadTimes() []LeadTime {
	tiers := []models.Severity{
		models.SeverityCritical,
		models.SeverityHigh,
		models.SeverityMedium,
		models.SeverityLow,
	}
	out := make([]LeadTime, 0, len(tiers))
	for _, s := range tiers {
		out = append(out, LeadTime{Priority: string(s), LeadDays: predict.LeadDays(s)})
	}
	return out
}

// handleLeadTimes returns the priority to lead-time reference table.
//
//	@Summary		Lead times
//	@Description	Returns the expected days until failure per priority tier, used when planning task schedules.
//	@Tags			maintenance
//	@Produce		json
//	@Success		200 {array} LeadTime
//	@Router			/maintenance/lead-times [get]
func (m *Module) handleLeadTimes(w http.ResponseWriter, r *http.Request) {
	maintWriteJSON(w, http.StatusOK, leadTimes())
}

// handleListByEquipment returns tasks for a piece of equipment.
//
//	@Summary		Equipment tasks
//	@Description	Returns maintenance tasks for a piece of equipment, ordered by scheduled date.
//	@Tags			maintenance
//	@Produce		json
//	@Param			equipment_id path string true "Equipment ID"
//	@Param			status query string false "Status filter (SCHEDULED, IN_PROGRESS, COMPLETED, CANCELLED, OVERDUE)"
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} Task
//	@Failure		500 {object} map[string]any
//	@Router			/maintenance/equipment/{equipment_id} [get]
func (m *Module) handleListByEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID := r.PathValue("equipment_id")
	if equipmentID == "" {
		maintWriteError(w, http.StatusBadRequest, "equipment_id is required")
		return
	}
	status := r.URL.Query().Get("status")
	limit := maintParseLimit(r, 100)

	tasks, err := m.store.ListByEquipment(r.Context(), equipmentID, status, limit, m.now())
	if err != nil {
		m.logger.Warn("failed to list equipment tasks",
			zap.String("equipment_id", equipmentID),
			zap.Error(err),
		)
		maintWriteError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	maintWriteJSON(w, http.StatusOK, tasks)
}

// handleGetTask returns a single task by ID.
//
//	@Summary		Get task
//	@Description	Returns a single maintenance task by ID.
//	@Tags			maintenance
//	@Produce		json
//	@Param			id path string true "Task ID"
//	@Success		200 {object} Task
//	@Failure		404 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/maintenance/{id} [get]
func (m *Module) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := m.store.GetTask(r.Context(), id, m.now())
	if err != nil {
		m.logger.Warn("failed to get task", zap.String("task_id", id), zap.Error(err))
		maintWriteError(w, http.StatusInternalServerError, "failed to get task")
		return
	}
	if t == nil {
		maintWriteError(w, http.StatusNotFound, "task not found")
		return
	}
	maintWriteJSON(w, http.StatusOK, t)
}

// StartRequest is the request body for POST /maintenance/{id}/start.
type StartRequest struct {
	AssignedTo string `json:"assigned_to,omitempty"`
}

// handleStart transitions a task to IN_PROGRESS.
//
//	@Summary		Start task
//	@Description	Transitions a SCHEDULED task to IN_PROGRESS.
//	@Tags			maintenance
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Task ID"
//	@Param			request body StartRequest false "Optional assignee"
//	@Success		200 {object} Task
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/maintenance/{id}/start [post]
func (m *Module) handleStart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req StartRequest
	if r.Body != nil {
		// Body is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	t, err := m.store.Start(r.Context(), id, req.AssignedTo)
	if err != nil {
		m.writeTransitionError(w, id, err)
		return
	}
	m.logger.Info("maintenance task started",
		zap.String("task_id", t.ID),
		zap.String("assigned_to", t.AssignedTo),
	)
	m.publish(r.Context(), TopicTaskStarted, t)
	maintWriteJSON(w, http.StatusOK, t)
}

// handleComplete transitions a task to COMPLETED.
//
//	@Summary		Complete task
//	@Description	Transitions a SCHEDULED or IN_PROGRESS task to COMPLETED, recording actuals.
//	@Tags			maintenance
//	@Accept			json
//	@Produce		json
//	@Param			id path string true "Task ID"
//	@Param			request body CompletionInput false "Actual duration, cost, and notes"
//	@Success		200 {object} Task
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/maintenance/{id}/complete [post]
func (m *Module) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in CompletionInput
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&in)
	}

	t, err := m.store.Complete(r.Context(), id, in, m.now())
	if err != nil {
		m.writeTransitionError(w, id, err)
		return
	}
	tasksCompletedTotal.Inc()
	m.logger.Info("maintenance task completed", zap.String("task_id", t.ID))
	m.publish(r.Context(), TopicTaskCompleted, t)
	maintWriteJSON(w, http.StatusOK, t)
}

// handleCancel transitions a task to CANCELLED.
//
//	@Summary		Cancel task
//	@Description	Transitions a SCHEDULED task to CANCELLED.
//	@Tags			maintenance
//	@Produce		json
//	@Param			id path string true "Task ID"
//	@Success		200 {object} Task
//	@Failure		404 {object} map[string]any
//	@Failure		409 {object} map[string]any
//	@Router			/maintenance/{id}/cancel [post]
func (m *Module) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	t, err := m.store.Cancel(r.Context(), id)
	if err != nil {
		m.writeTransitionError(w, id, err)
		return
	}
	m.logger.Info("maintenance task cancelled", zap.String("task_id", t.ID))
	m.publish(r.Context(), TopicTaskCancelled, t)
	maintWriteJSON(w, http.StatusOK, t)
}

func (m *Module) writeTransitionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		maintWriteError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, ErrInvalidTransition):
		maintWriteError(w, http.StatusConflict, err.Error())
	default:
		m.logger.Warn("task transition failed", zap.String("task_id", id), zap.Error(err))
		maintWriteError(w, http.StatusInternalServerError, "task update failed")
	}
}

// -- helpers --

func maintWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func maintWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://gearguard.io/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func maintParseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 1000 {
			return n
		}
	}
	return defaultLimit
}
