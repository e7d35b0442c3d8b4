package alert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/store"
	"github.com/gearguard/gearguard/pkg/models"
	"github.com/google/uuid"
)

func testStore(t *testing.T) *AlertStore {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background(), "alert", migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAlertStore(s.DB())
}

func testAlert(equipmentID string, severity models.Severity) *Alert {
	return &Alert{
		ID:                 uuid.NewString(),
		EquipmentID:        equipmentID,
		Severity:           severity,
		FailureProbability: 0.7,
		DaysUntilFailure:   15,
		RecommendedAction:  "Schedule maintenance within 2 weeks",
		Status:             StatusActive,
		HealthScore:        28,
		Confidence:         models.ConfidenceMedium,
		Source:             "simulated",
		CreatedAt:          time.Now().UTC(),
	}
}

func TestInsertAndGetAlert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testAlert("RADAR-001", models.SeverityHigh)
	if err := s.InsertAlert(ctx, a); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	got, err := s.GetAlert(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAlert() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetAlert() = nil, want alert")
	}
	if got.EquipmentID != "RADAR-001" || got.Severity != models.SeverityHigh || got.Status != StatusActive {
		t.Errorf("GetAlert() = %+v, fields mismatch", got)
	}

	missing, err := s.GetAlert(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetAlert(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetAlert(missing) = %+v, want nil", missing)
	}
}

func TestListActive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	high := testAlert("RADAR-001", models.SeverityHigh)
	crit := testAlert("TANK-002", models.SeverityCritical)
	resolved := testAlert("GEN-003", models.SeverityHigh)
	resolved.Status = StatusResolved

	for _, a := range []*Alert{high, crit, resolved} {
		if err := s.InsertAlert(ctx, a); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}

	all, err := s.ListActive(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListActive() returned %d alerts, want 2", len(all))
	}

	crits, err := s.ListActive(ctx, models.SeverityCritical, 100)
	if err != nil {
		t.Fatalf("ListActive(CRITICAL) error = %v", err)
	}
	if len(crits) != 1 || crits[0].EquipmentID != "TANK-002" {
		t.Errorf("ListActive(CRITICAL) = %+v, want the TANK-002 alert", crits)
	}
}

func TestAcknowledge(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testAlert("RADAR-001", models.SeverityHigh)
	if err := s.InsertAlert(ctx, a); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	at := time.Now().UTC()
	got, err := s.Acknowledge(ctx, a.ID, "operator.singh", "inspecting", at)
	if err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	if got.Status != StatusAcknowledged {
		t.Errorf("Status = %s, want ACKNOWLEDGED", got.Status)
	}
	if got.AcknowledgedBy != "operator.singh" {
		t.Errorf("AcknowledgedBy = %q, want operator.singh", got.AcknowledgedBy)
	}
	if got.AcknowledgedAt == nil {
		t.Error("AcknowledgedAt is nil")
	}

	// A second acknowledge is an invalid transition.
	_, err = s.Acknowledge(ctx, a.ID, "operator.singh", "", at)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Acknowledge() error = %v, want ErrInvalidTransition", err)
	}

	// Unknown ID surfaces as not found.
	_, err = s.Acknowledge(ctx, "no-such-id", "operator.singh", "", at)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Acknowledge(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResolve(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Resolve straight from ACTIVE.
	a := testAlert("RADAR-001", models.SeverityHigh)
	if err := s.InsertAlert(ctx, a); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}
	got, err := s.Resolve(ctx, a.ID, "tech.lee", "replaced bearing", time.Now().UTC())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Status != StatusResolved {
		t.Errorf("Status = %s, want RESOLVED", got.Status)
	}
	if got.ResolvedBy != "tech.lee" || got.ResolvedAt == nil {
		t.Errorf("resolution fields not set: %+v", got)
	}
	if got.Notes != "Resolution: replaced bearing" {
		t.Errorf("Notes = %q, want resolution entry", got.Notes)
	}

	// Resolving again is invalid: resolved alerts never reopen.
	_, err = s.Resolve(ctx, a.ID, "tech.lee", "", time.Now().UTC())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Resolve() error = %v, want ErrInvalidTransition", err)
	}
}

func TestResolveAfterAcknowledgeAppendsNotes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := testAlert("RADAR-001", models.SeverityHigh)
	a.Notes = "raised during patrol"
	if err := s.InsertAlert(ctx, a); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	if _, err := s.Acknowledge(ctx, a.ID, "operator.singh", "inspecting now", time.Now().UTC()); err != nil {
		t.Fatalf("Acknowledge() error = %v", err)
	}
	got, err := s.Resolve(ctx, a.ID, "tech.lee", "replaced coolant pump", time.Now().UTC())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	lines := strings.Split(got.Notes, "\n")
	if len(lines) != 3 {
		t.Fatalf("Notes has %d lines, want 3: %q", len(lines), got.Notes)
	}
	if lines[0] != "raised during patrol" {
		t.Errorf("original note lost: %q", lines[0])
	}
	if lines[2] != "Resolution: replaced coolant pump" {
		t.Errorf("resolution entry = %q", lines[2])
	}
}

func TestCountActive(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.InsertAlert(ctx, testAlert("RADAR-001", models.SeverityHigh)); err != nil {
			t.Fatalf("InsertAlert() error = %v", err)
		}
	}
	n, err := s.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountActive() = %d, want 3", n)
	}
}

func TestDeleteOldResolved(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := testAlert("RADAR-001", models.SeverityHigh)
	if err := s.InsertAlert(ctx, old); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}
	if _, err := s.Resolve(ctx, old.ID, "tech.lee", "", time.Now().UTC().Add(-48*time.Hour)); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	active := testAlert("TANK-002", models.SeverityHigh)
	if err := s.InsertAlert(ctx, active); err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}

	deleted, err := s.DeleteOldResolved(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOldResolved() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteOldResolved() = %d, want 1", deleted)
	}

	remaining, err := s.GetAlert(ctx, active.ID)
	if err != nil || remaining == nil {
		t.Errorf("active alert was deleted: %v, %v", remaining, err)
	}
}
