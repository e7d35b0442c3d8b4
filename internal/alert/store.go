package alert

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
)

// Alert lifecycle statuses.
const (
	StatusActive       = "ACTIVE"
	StatusAcknowledged = "ACKNOWLEDGED"
	StatusResolved     = "RESOLVED"
)

// Alert is a predictive maintenance alert for a piece of equipment.
type Alert struct {
	ID                 string            `json:"id"`
	EquipmentID        string            `json:"equipment_id"`
	Severity           models.Severity   `json:"severity"`
	FailureProbability float64           `json:"failure_probability"`
	DaysUntilFailure   int               `json:"days_until_failure"`
	RecommendedAction  string            `json:"recommended_action"`
	Status             string            `json:"status"`
	HealthScore        float64           `json:"health_score"`
	Confidence         models.Confidence `json:"confidence"`
	Source             string            `json:"source"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	AcknowledgedAt     *time.Time        `json:"acknowledged_at,omitempty"`
	AcknowledgedBy     string            `json:"acknowledged_by,omitempty"`
	ResolvedAt         *time.Time        `json:"resolved_at,omitempty"`
	ResolvedBy         string            `json:"resolved_by,omitempty"`
}

// AlertStore provides database access for the alert plugin.
type AlertStore struct {
	db *sql.DB
}

// NewAlertStore creates a new AlertStore backed by the given database.
func NewAlertStore(db *sql.DB) *AlertStore {
	return &AlertStore{db: db}
}

const alertColumns = `id, equipment_id, severity, failure_probability, days_until_failure,
	recommended_action, status, health_score, confidence, source, notes,
	created_at, acknowledged_at, acknowledged_by, resolved_at, resolved_by`

// InsertAlert inserts a new alert.
func (s *AlertStore) InsertAlert(ctx context.Context, a *Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EquipmentID, a.Severity, a.FailureProbability, a.DaysUntilFailure,
		a.RecommendedAction, a.Status, a.HealthScore, a.Confidence, a.Source, a.Notes,
		a.CreatedAt, nullTime(a.AcknowledgedAt), a.AcknowledgedBy,
		nullTime(a.ResolvedAt), a.ResolvedBy,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetAlert returns an alert by ID. Returns nil, nil if not found.
func (s *AlertStore) GetAlert(ctx context.Context, id string) (*Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+` FROM alert_alerts WHERE id = ?`, id)
	a, err := scanAlert(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// ListActive returns active alerts, newest first. An empty severity
// returns all active alerts; limit <= 0 defaults to 100.
func (s *AlertStore) ListActive(ctx context.Context, severity models.Severity, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows *sql.Rows
		err  error
	)
	if severity == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+` FROM alert_alerts
			WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
			StatusActive, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+` FROM alert_alerts
			WHERE status = ? AND severity = ? ORDER BY created_at DESC LIMIT ?`,
			StatusActive, severity, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// ListActiveByEquipment returns all active alerts for a piece of equipment.
func (s *AlertStore) ListActiveByEquipment(ctx context.Context, equipmentID string) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+alertColumns+` FROM alert_alerts
		WHERE equipment_id = ? AND status = ? ORDER BY created_at DESC`,
		equipmentID, StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list active alerts by equipment: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// ListByEquipment returns alerts for a piece of equipment, newest first.
// An empty status returns alerts in any status; limit <= 0 defaults to 100.
func (s *AlertStore) ListByEquipment(ctx context.Context, equipmentID, status string, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+` FROM alert_alerts
			WHERE equipment_id = ? ORDER BY created_at DESC LIMIT ?`,
			equipmentID, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+` FROM alert_alerts
			WHERE equipment_id = ? AND status = ? ORDER BY created_at DESC LIMIT ?`,
			equipmentID, status, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list alerts by equipment: %w", err)
	}
	defer rows.Close()
	return collectAlerts(rows)
}

// CountActive returns the number of active alerts.
func (s *AlertStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alert_alerts WHERE status = ?", StatusActive,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active alerts: %w", err)
	}
	return n, nil
}

// Acknowledge transitions an alert from ACTIVE to ACKNOWLEDGED.
// Returns the updated alert, or ErrNotFound / ErrInvalidTransition.
func (s *AlertStore) Acknowledge(ctx context.Context, id, by, notes string, at time.Time) (*Alert, error) {
	a, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.Status != StatusActive {
		return nil, fmt.Errorf("%w: cannot acknowledge alert in status %s", ErrInvalidTransition, a.Status)
	}

	if notes != "" {
		a.Notes = appendNotes(a.Notes, notes)
	}
	a.Status = StatusAcknowledged
	a.AcknowledgedAt = &at
	a.AcknowledgedBy = by

	res, err := s.db.ExecContext(ctx, `
		UPDATE alert_alerts
		SET status = ?, acknowledged_at = ?, acknowledged_by = ?, notes = ?
		WHERE id = ? AND status = ?`,
		StatusAcknowledged, at, by, a.Notes, id, StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost a race with a concurrent transition.
		return nil, fmt.Errorf("%w: alert is no longer ACTIVE", ErrInvalidTransition)
	}
	return a, nil
}

// Resolve transitions an alert from ACTIVE or ACKNOWLEDGED to RESOLVED.
// Resolution notes are appended, never overwritten. Returns the updated
// alert, or ErrNotFound / ErrInvalidTransition.
func (s *AlertStore) Resolve(ctx context.Context, id, by, notes string, at time.Time) (*Alert, error) {
	a, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.Status != StatusActive && a.Status != StatusAcknowledged {
		return nil, fmt.Errorf("%w: cannot resolve alert in status %s", ErrInvalidTransition, a.Status)
	}

	prevStatus := a.Status
	if notes != "" {
		a.Notes = appendNotes(a.Notes, "Resolution: "+notes)
	}
	a.Status = StatusResolved
	a.ResolvedAt = &at
	a.ResolvedBy = by

	res, err := s.db.ExecContext(ctx, `
		UPDATE alert_alerts
		SET status = ?, resolved_at = ?, resolved_by = ?, notes = ?
		WHERE id = ? AND status = ?`,
		StatusResolved, at, by, a.Notes, id, prevStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: alert status changed concurrently", ErrInvalidTransition)
	}
	return a, nil
}

// DeleteOldResolved deletes resolved alerts older than the given time.
// Returns the number of rows deleted.
func (s *AlertStore) DeleteOldResolved(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM alert_alerts WHERE status = ? AND resolved_at < ?`,
		StatusResolved, before,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old resolved alerts: %w", err)
	}
	return result.RowsAffected()
}

// appendNotes joins note entries with newlines.
func appendNotes(existing, entry string) string {
	if existing == "" {
		return entry
	}
	return existing + "\n" + entry
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

func scanAlert(row rowScanner) (*Alert, error) {
	var (
		a              Alert
		acknowledgedAt sql.NullTime
		resolvedAt     sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.EquipmentID, &a.Severity, &a.FailureProbability, &a.DaysUntilFailure,
		&a.RecommendedAction, &a.Status, &a.HealthScore, &a.Confidence, &a.Source, &a.Notes,
		&a.CreatedAt, &acknowledgedAt, &a.AcknowledgedBy, &resolvedAt, &a.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}
	if acknowledgedAt.Valid {
		a.AcknowledgedAt = &acknowledgedAt.Time
	}
	if resolvedAt.Valid {
		a.ResolvedAt = &resolvedAt.Time
	}
	return &a, nil
}

func collectAlerts(rows *sql.Rows) ([]Alert, error) {
	var alerts []Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
