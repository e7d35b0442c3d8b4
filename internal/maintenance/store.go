package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Task lifecycle statuses. OVERDUE is derived at read time for
// scheduled tasks past their scheduled date and is never stored.
const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusOverdue    = "OVERDUE"
)

// Task types.
const (
	TypeEmergency  = "EMERGENCY"
	TypePreventive = "PREVENTIVE"
	TypeCorrective = "CORRECTIVE"
	TypeRoutine    = "ROUTINE"
)

// Task sources.
const (
	SourceAutoAlert = "auto_alert"
	SourceManual    = "manual"
)

// Task is a scheduled maintenance work item for a piece of equipment.
type Task struct {
	ID                     string     `json:"id"`
	EquipmentID            string     `json:"equipment_id"`
	AlertID                string     `json:"alert_id,omitempty"`
	Title                  string     `json:"title"`
	Description            string     `json:"description,omitempty"`
	TaskType               string     `json:"task_type"`
	Priority               string     `json:"priority"`
	Status                 string     `json:"status"`
	ScheduledDate          time.Time  `json:"scheduled_date"`
	AssignedTo             string     `json:"assigned_to,omitempty"`
	EstimatedDurationHours float64    `json:"estimated_duration_hours,omitempty"`
	EstimatedCost          float64    `json:"estimated_cost,omitempty"`
	CompletedDate          *time.Time `json:"completed_date,omitempty"`
	ActualDurationHours    float64    `json:"actual_duration_hours,omitempty"`
	ActualCost             float64    `json:"actual_cost,omitempty"`
	CompletionNotes        string     `json:"completion_notes,omitempty"`
	Source                 string     `json:"source"`
	CreatedAt              time.Time  `json:"created_at"`
}

// deriveStatus overlays the OVERDUE view status on scheduled tasks
// whose scheduled date has passed. The stored status is untouched.
func (t *Task) deriveStatus(now time.Time) {
	if t.Status == StatusScheduled && t.ScheduledDate.Before(now) {
		t.Status = StatusOverdue
	}
}

// TaskStore provides database access for the maintenance plugin.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore backed by the given database.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, equipment_id, alert_id, title, description, task_type, priority,
	status, scheduled_date, assigned_to, estimated_duration_hours, estimated_cost,
	completed_date, actual_duration_hours, actual_cost, completion_notes, source, created_at`

// InsertTask inserts a new maintenance task.
func (s *TaskStore) InsertTask(ctx context.Context, t *Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO maintenance_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.EquipmentID, t.AlertID, t.Title, t.Description, t.TaskType, t.Priority,
		t.Status, t.ScheduledDate, t.AssignedTo, t.EstimatedDurationHours, t.EstimatedCost,
		nullTime(t.CompletedDate), t.ActualDurationHours, t.ActualCost, t.CompletionNotes,
		t.Source, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask returns a task by ID with the OVERDUE overlay applied.
// Returns nil, nil if not found.
func (s *TaskStore) GetTask(ctx context.Context, id string, now time.Time) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM maintenance_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	t.deriveStatus(now)
	return t, nil
}

// getStored returns a task without the OVERDUE overlay, for transition
// checks against the stored status.
func (s *TaskStore) getStored(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM maintenance_tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByEquipment returns tasks for a piece of equipment ordered by
// scheduled date. An empty status returns tasks in any status. The
// OVERDUE filter matches scheduled tasks past their scheduled date.
func (s *TaskStore) ListByEquipment(ctx context.Context, equipmentID, status string, limit int, now time.Time) ([]Task, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows *sql.Rows
		err  error
	)
	switch status {
	case "":
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+taskColumns+` FROM maintenance_tasks
			WHERE equipment_id = ? ORDER BY scheduled_date ASC LIMIT ?`,
			equipmentID, limit,
		)
	case StatusOverdue:
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+taskColumns+` FROM maintenance_tasks
			WHERE equipment_id = ? AND status = ? AND scheduled_date < ?
			ORDER BY scheduled_date ASC LIMIT ?`,
			equipmentID, StatusScheduled, now, limit,
		)
	case StatusScheduled:
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+taskColumns+` FROM maintenance_tasks
			WHERE equipment_id = ? AND status = ? AND scheduled_date >= ?
			ORDER BY scheduled_date ASC LIMIT ?`,
			equipmentID, StatusScheduled, now, limit,
		)
	default:
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+taskColumns+` FROM maintenance_tasks
			WHERE equipment_id = ? AND status = ? ORDER BY scheduled_date ASC LIMIT ?`,
			equipmentID, status, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks by equipment: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows, now)
}

// ListUpcoming returns open tasks scheduled within the given horizon,
// plus any already overdue, ordered by scheduled date.
func (s *TaskStore) ListUpcoming(ctx context.Context, horizon time.Duration, limit int, now time.Time) ([]Task, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM maintenance_tasks
		WHERE status IN (?, ?) AND scheduled_date <= ?
		ORDER BY scheduled_date ASC LIMIT ?`,
		StatusScheduled, StatusInProgress, now.Add(horizon), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows, now)
}

// ListOverdue returns scheduled tasks past their scheduled date,
// oldest first.
func (s *TaskStore) ListOverdue(ctx context.Context, limit int, now time.Time) ([]Task, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM maintenance_tasks
		WHERE status = ? AND scheduled_date < ?
		ORDER BY scheduled_date ASC LIMIT ?`,
		StatusScheduled, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows, now)
}

// HasOpenTaskForAlert reports whether an open auto-scheduled task
// already exists for the given alert.
func (s *TaskStore) HasOpenTaskForAlert(ctx context.Context, alertID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM maintenance_tasks
		WHERE alert_id = ? AND status IN (?, ?)`,
		alertID, StatusScheduled, StatusInProgress,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count tasks for alert: %w", err)
	}
	return n > 0, nil
}

// Start transitions a task from SCHEDULED to IN_PROGRESS.
func (s *TaskStore) Start(ctx context.Context, id, assignedTo string) (*Task, error) {
	t, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if t.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: cannot start task in status %s", ErrInvalidTransition, t.Status)
	}

	t.Status = StatusInProgress
	if assignedTo != "" {
		t.AssignedTo = assignedTo
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE maintenance_tasks SET status = ?, assigned_to = ?
		WHERE id = ? AND status = ?`,
		StatusInProgress, t.AssignedTo, id, StatusScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("start task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: task is no longer SCHEDULED", ErrInvalidTransition)
	}
	return t, nil
}

// CompletionInput carries the actuals recorded when closing a task.
type CompletionInput struct {
	ActualDurationHours float64 `json:"actual_duration_hours,omitempty"`
	ActualCost          float64 `json:"actual_cost,omitempty"`
	CompletionNotes     string  `json:"completion_notes,omitempty"`
}

// Complete transitions a task from SCHEDULED or IN_PROGRESS to
// COMPLETED, recording the completion timestamp and actuals.
func (s *TaskStore) Complete(ctx context.Context, id string, in CompletionInput, at time.Time) (*Task, error) {
	t, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if t.Status != StatusScheduled && t.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete task in status %s", ErrInvalidTransition, t.Status)
	}

	prevStatus := t.Status
	t.Status = StatusCompleted
	t.CompletedDate = &at
	t.ActualDurationHours = in.ActualDurationHours
	t.ActualCost = in.ActualCost
	t.CompletionNotes = in.CompletionNotes

	res, err := s.db.ExecContext(ctx, `
		UPDATE maintenance_tasks
		SET status = ?, completed_date = ?, actual_duration_hours = ?,
			actual_cost = ?, completion_notes = ?
		WHERE id = ? AND status = ?`,
		StatusCompleted, at, in.ActualDurationHours, in.ActualCost, in.CompletionNotes,
		id, prevStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: task status changed concurrently", ErrInvalidTransition)
	}
	return t, nil
}

// Cancel transitions a task from SCHEDULED to CANCELLED.
func (s *TaskStore) Cancel(ctx context.Context, id string) (*Task, error) {
	t, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if t.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: cannot cancel task in status %s", ErrInvalidTransition, t.Status)
	}

	t.Status = StatusCancelled

	res, err := s.db.ExecContext(ctx, `
		UPDATE maintenance_tasks SET status = ?
		WHERE id = ? AND status = ?`,
		StatusCancelled, id, StatusScheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: task is no longer SCHEDULED", ErrInvalidTransition)
	}
	return t, nil
}

// DeleteOldClosed deletes completed and cancelled tasks created before
// the given time. Returns the number of rows deleted.
func (s *TaskStore) DeleteOldClosed(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM maintenance_tasks
		WHERE status IN (?, ?) AND created_at < ?`,
		StatusCompleted, StatusCancelled, before,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old closed tasks: %w", err)
	}
	return result.RowsAffected()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		t             Task
		completedDate sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.EquipmentID, &t.AlertID, &t.Title, &t.Description, &t.TaskType, &t.Priority,
		&t.Status, &t.ScheduledDate, &t.AssignedTo, &t.EstimatedDurationHours, &t.EstimatedCost,
		&completedDate, &t.ActualDurationHours, &t.ActualCost, &t.CompletionNotes,
		&t.Source, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedDate.Valid {
		t.CompletedDate = &completedDate.Time
	}
	return &t, nil
}

func collectTasks(rows *sql.Rows, now time.Time) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		t.deriveStatus(now)
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
