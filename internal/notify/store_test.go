package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/store"
	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/roles"
	"github.com/google/uuid"
)

func testJobStore(t *testing.T) *JobStore {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background(), "notify", migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewJobStore(s.DB())
}

func testJob(t *testing.T, now time.Time) *Job {
	t.Helper()
	payload, err := json.Marshal(roles.AlertNotification{
		AlertID:            "alert-1",
		EquipmentID:        "RADAR-001",
		Severity:           models.SeverityHigh,
		FailureProbability: 0.7,
		DaysUntilFailure:   15,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &Job{
		ID:            uuid.NewString(),
		AlertID:       "alert-1",
		EquipmentID:   "RADAR-001",
		Severity:      "HIGH",
		Payload:       string(payload),
		Status:        StatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

func TestClaimIsExclusive(t *testing.T) {
	s := testJobStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	j := testJob(t, now)
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}

	claimed, err := s.Claim(ctx, j.ID)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if !claimed {
		t.Fatal("first Claim() = false, want true")
	}

	again, err := s.Claim(ctx, j.ID)
	if err != nil {
		t.Fatalf("second Claim() error = %v", err)
	}
	if again {
		t.Error("second Claim() = true, want false")
	}
}

func TestListDueSkipsFutureJobs(t *testing.T) {
	s := testJobStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	due := testJob(t, now.Add(-time.Minute))
	future := testJob(t, now.Add(time.Hour))
	for _, j := range []*Job{due, future} {
		if err := s.InsertJob(ctx, j); err != nil {
			t.Fatalf("InsertJob() error = %v", err)
		}
	}

	jobs, err := s.ListDue(ctx, now, 50)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != due.ID {
		t.Errorf("ListDue() = %+v, want only the due job", jobs)
	}
}

func TestRequeueFailedJob(t *testing.T) {
	s := testJobStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	j := testJob(t, now)
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}
	if err := s.MarkFailed(ctx, j.ID, 3, "webhook: status 500"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}

	got, err := s.Requeue(ctx, j.ID, now)
	if err != nil {
		t.Fatalf("Requeue() error = %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %s, want PENDING", got.Status)
	}
	if got.AttemptCount != 0 {
		t.Errorf("AttemptCount = %d, want 0", got.AttemptCount)
	}
	if got.LastError != "" {
		t.Errorf("LastError = %q, want empty", got.LastError)
	}

	// Only FAILED jobs can be requeued.
	_, err = s.Requeue(ctx, j.ID, now)
	if !errors.Is(err, ErrNotFailed) {
		t.Errorf("Requeue(pending) error = %v, want ErrNotFailed", err)
	}
	_, err = s.Requeue(ctx, "no-such-id", now)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Requeue(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResetStuck(t *testing.T) {
	s := testJobStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	j := testJob(t, now)
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}
	if _, err := s.Claim(ctx, j.ID); err != nil {
		t.Fatalf("Claim() error = %v", err)
	}

	n, err := s.ResetStuck(ctx, now)
	if err != nil {
		t.Fatalf("ResetStuck() error = %v", err)
	}
	if n != 1 {
		t.Errorf("ResetStuck() = %d, want 1", n)
	}

	got, err := s.GetJob(ctx, j.ID)
	if err != nil || got == nil {
		t.Fatalf("GetJob() = %v, %v", got, err)
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %s, want PENDING", got.Status)
	}
}
