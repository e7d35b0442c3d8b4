package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Job delivery statuses.
const (
	StatusPending    = "PENDING"
	StatusDelivering = "DELIVERING"
	StatusDelivered  = "DELIVERED"
	StatusFailed     = "FAILED"
)

// Job is a queued alert notification. Payload holds the JSON-encoded
// alert snapshot taken at enqueue time.
type Job struct {
	ID            string     `json:"id"`
	AlertID       string     `json:"alert_id"`
	EquipmentID   string     `json:"equipment_id"`
	Severity      string     `json:"severity"`
	Payload       string     `json:"payload"`
	Status        string     `json:"status"`
	AttemptCount  int        `json:"attempt_count"`
	LastError     string     `json:"last_error,omitempty"`
	NextAttemptAt time.Time  `json:"next_attempt_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// JobStore provides database access for the notify plugin.
type JobStore struct {
	db *sql.DB
}

// NewJobStore creates a new JobStore backed by the given database.
func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, alert_id, equipment_id, severity, payload, status,
	attempt_count, last_error, next_attempt_at, delivered_at, created_at`

// InsertJob inserts a new notification job.
func (s *JobStore) InsertJob(ctx context.Context, j *Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notify_jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.AlertID, j.EquipmentID, j.Severity, j.Payload, j.Status,
		j.AttemptCount, j.LastError, j.NextAttemptAt, nullTime(j.DeliveredAt), j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification job: %w", err)
	}
	return nil
}

// GetJob returns a job by ID. Returns nil, nil if not found.
func (s *JobStore) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM notify_jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification job: %w", err)
	}
	return j, nil
}

// ListDue returns pending jobs whose next attempt time has passed,
// oldest first.
func (s *JobStore) ListDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM notify_jobs
		WHERE status = ? AND next_attempt_at <= ?
		ORDER BY next_attempt_at ASC LIMIT ?`,
		StatusPending, now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list due jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListFailed returns jobs parked in the failure queue, newest first.
func (s *JobStore) ListFailed(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+` FROM notify_jobs
		WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
		StatusFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list failed jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// Claim atomically moves a pending job to DELIVERING. Returns false
// when another worker claimed it first.
func (s *JobStore) Claim(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs SET status = ? WHERE id = ? AND status = ?`,
		StatusDelivering, id, StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	return n == 1, nil
}

// MarkDelivered records a successful delivery.
func (s *JobStore) MarkDelivered(ctx context.Context, id string, attempts int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs
		SET status = ?, attempt_count = ?, last_error = '', delivered_at = ?
		WHERE id = ?`,
		StatusDelivered, attempts, at, id,
	)
	if err != nil {
		return fmt.Errorf("mark job delivered: %w", err)
	}
	return nil
}

// Reschedule records a failed attempt and queues the job for retry.
func (s *JobStore) Reschedule(ctx context.Context, id string, attempts int, lastError string, nextAttempt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs
		SET status = ?, attempt_count = ?, last_error = ?, next_attempt_at = ?
		WHERE id = ?`,
		StatusPending, attempts, lastError, nextAttempt, id,
	)
	if err != nil {
		return fmt.Errorf("reschedule job: %w", err)
	}
	return nil
}

// MarkFailed parks a job in the failure queue after its attempts are
// exhausted.
func (s *JobStore) MarkFailed(ctx context.Context, id string, attempts int, lastError string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs
		SET status = ?, attempt_count = ?, last_error = ?
		WHERE id = ?`,
		StatusFailed, attempts, lastError, id,
	)
	if err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}

// Requeue moves a FAILED job back to PENDING with a fresh attempt
// budget. Returns ErrNotFound or ErrNotFailed when not applicable.
func (s *JobStore) Requeue(ctx context.Context, id string, now time.Time) (*Job, error) {
	j, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrNotFound
	}
	if j.Status != StatusFailed {
		return nil, fmt.Errorf("%w: job is %s", ErrNotFailed, j.Status)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs
		SET status = ?, attempt_count = 0, last_error = '', next_attempt_at = ?
		WHERE id = ? AND status = ?`,
		StatusPending, now, id, StatusFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("requeue job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: job status changed concurrently", ErrNotFailed)
	}

	j.Status = StatusPending
	j.AttemptCount = 0
	j.LastError = ""
	j.NextAttemptAt = now
	return j, nil
}

// ResetStuck moves DELIVERING jobs back to PENDING. Called at startup
// to recover jobs orphaned by an unclean shutdown.
func (s *JobStore) ResetStuck(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notify_jobs SET status = ?, next_attempt_at = ?
		WHERE status = ?`,
		StatusPending, now, StatusDelivering,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOldDelivered deletes delivered jobs older than the given time.
// Returns the number of rows deleted.
func (s *JobStore) DeleteOldDelivered(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM notify_jobs WHERE status = ? AND delivered_at < ?`,
		StatusDelivered, before,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old delivered jobs: %w", err)
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

func scanJob(row rowScanner) (*Job, error) {
	var (
		j           Job
		deliveredAt sql.NullTime
	)
	err := row.Scan(
		&j.ID, &j.AlertID, &j.EquipmentID, &j.Severity, &j.Payload, &j.Status,
		&j.AttemptCount, &j.LastError, &j.NextAttemptAt, &deliveredAt, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deliveredAt.Valid {
		j.DeliveredAt = &deliveredAt.Time
	}
	return &j, nil
}

func collectJobs(rows *sql.Rows) ([]Job, error) {
	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
