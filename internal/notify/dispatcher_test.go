package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gearguard/gearguard/pkg/roles"
	"go.uber.org/zap"
)

// flakySink fails the first failures deliveries, then succeeds.
type flakySink struct {
	failures int
	calls    int
}

func (s *flakySink) Name() string { return "flaky" }

func (s *flakySink) Deliver(ctx context.Context, n roles.AlertNotification) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("endpoint unavailable")
	}
	return nil
}

func testDispatcher(t *testing.T, sink Sink) (*Dispatcher, *JobStore) {
	t.Helper()
	s := testJobStore(t)
	cfg := DefaultConfig()
	cfg.BackoffBase = 30 * time.Second
	d := NewDispatcher(s, []Sink{sink}, nil, cfg, zap.NewNop())
	return d, s
}

// claimAndProcess simulates one poll cycle for a single job.
func claimAndProcess(t *testing.T, d *Dispatcher, s *JobStore, id string) {
	t.Helper()
	ctx := context.Background()
	claimed, err := s.Claim(ctx, id)
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	if !claimed {
		t.Fatal("Claim() = false, want true")
	}
	j, err := s.GetJob(ctx, id)
	if err != nil || j == nil {
		t.Fatalf("GetJob() = %v, %v", j, err)
	}
	d.process(ctx, *j)
}

func TestProcessDeliversFirstTry(t *testing.T) {
	sink := &flakySink{failures: 0}
	d, s := testDispatcher(t, sink)
	ctx := context.Background()

	j := testJob(t, time.Now().UTC())
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}
	claimAndProcess(t, d, s, j.ID)

	got, _ := s.GetJob(ctx, j.ID)
	if got.Status != StatusDelivered {
		t.Errorf("Status = %s, want DELIVERED", got.Status)
	}
	if got.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", got.AttemptCount)
	}
	if got.DeliveredAt == nil {
		t.Error("DeliveredAt is nil")
	}
}

func TestProcessRetriesWithBackoff(t *testing.T) {
	sink := &flakySink{failures: 2}
	d, s := testDispatcher(t, sink)
	ctx := context.Background()
	start := time.Now().UTC()

	j := testJob(t, start)
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}

	// First attempt fails: rescheduled with the base delay.
	claimAndProcess(t, d, s, j.ID)
	got, _ := s.GetJob(ctx, j.ID)
	if got.Status != StatusPending {
		t.Fatalf("Status after first failure = %s, want PENDING", got.Status)
	}
	if got.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", got.AttemptCount)
	}
	if got.LastError == "" {
		t.Error("LastError empty after failure")
	}
	if got.NextAttemptAt.Before(start.Add(25 * time.Second)) {
		t.Errorf("NextAttemptAt = %v, want roughly base delay out", got.NextAttemptAt)
	}

	// Second attempt fails: delay doubles.
	claimAndProcess(t, d, s, j.ID)
	got, _ = s.GetJob(ctx, j.ID)
	if got.AttemptCount != 2 {
		t.Errorf("AttemptCount = %d, want 2", got.AttemptCount)
	}
	if got.NextAttemptAt.Before(start.Add(55 * time.Second)) {
		t.Errorf("NextAttemptAt = %v, want roughly doubled delay out", got.NextAttemptAt)
	}

	// Third attempt succeeds.
	claimAndProcess(t, d, s, j.ID)
	got, _ = s.GetJob(ctx, j.ID)
	if got.Status != StatusDelivered {
		t.Errorf("Status = %s, want DELIVERED", got.Status)
	}
	if got.AttemptCount != 3 {
		t.Errorf("AttemptCount = %d, want 3", got.AttemptCount)
	}
	if sink.calls != 3 {
		t.Errorf("sink called %d times, want 3", sink.calls)
	}
}

func TestProcessExhaustsAfterMaxAttempts(t *testing.T) {
	sink := &flakySink{failures: 10}
	d, s := testDispatcher(t, sink)
	ctx := context.Background()

	j := testJob(t, time.Now().UTC())
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		claimAndProcess(t, d, s, j.ID)
	}

	got, _ := s.GetJob(ctx, j.ID)
	if got.Status != StatusFailed {
		t.Fatalf("Status = %s, want FAILED", got.Status)
	}
	if got.AttemptCount != 3 {
		t.Errorf("AttemptCount = %d, want 3", got.AttemptCount)
	}
	if !strings.Contains(got.LastError, ErrDeliveryExhausted.Error()) {
		t.Errorf("LastError = %q, want exhaustion marker", got.LastError)
	}

	// A FAILED job never reaches the poller again.
	due, err := s.ListDue(ctx, time.Now().UTC().Add(time.Hour), 50)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("ListDue() returned %d jobs, want 0", len(due))
	}
	if sink.calls != 3 {
		t.Errorf("sink called %d times, want exactly 3", sink.calls)
	}
}

func TestProcessParksCorruptPayload(t *testing.T) {
	sink := &flakySink{}
	d, s := testDispatcher(t, sink)
	ctx := context.Background()

	j := testJob(t, time.Now().UTC())
	j.Payload = "{not json"
	if err := s.InsertJob(ctx, j); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}
	claimAndProcess(t, d, s, j.ID)

	got, _ := s.GetJob(ctx, j.ID)
	if got.Status != StatusFailed {
		t.Errorf("Status = %s, want FAILED", got.Status)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times for corrupt payload, want 0", sink.calls)
	}
}

func TestBackoffDelay(t *testing.T) {
	base := 30 * time.Second
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 30 * time.Second},
		{2, 60 * time.Second},
		{3, 120 * time.Second},
	}
	for _, tt := range tests {
		if got := backoffDelay(base, tt.attempts); got != tt.want {
			t.Errorf("backoffDelay(%v, %d) = %v, want %v", base, tt.attempts, got, tt.want)
		}
	}
}
