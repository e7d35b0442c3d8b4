package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gearguard/gearguard/pkg/models"
	"github.com/gearguard/gearguard/pkg/roles"
)

func TestWebhookSinkDeliver(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-GearGuard-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewWebhookSink(WebhookConfig{URL: srv.URL, Secret: "s3cret"})
	n := roles.AlertNotification{
		AlertID:     "alert-1",
		EquipmentID: "RADAR-001",
		Severity:    models.SeverityCritical,
	}
	if err := sink.Deliver(context.Background(), n); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	var decoded roles.AlertNotification
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("unmarshal delivered body: %v", err)
	}
	if decoded.EquipmentID != "RADAR-001" {
		t.Errorf("delivered EquipmentID = %q", decoded.EquipmentID)
	}

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSignature != want {
		t.Errorf("signature = %q, want %q", gotSignature, want)
	}
}

func TestWebhookSinkErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := NewWebhookSink(WebhookConfig{URL: srv.URL})
	err := sink.Deliver(context.Background(), roles.AlertNotification{AlertID: "alert-1"})
	if err == nil {
		t.Fatal("Deliver() = nil, want error on 5xx")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestWebhookSinkNoSignatureWithoutSecret(t *testing.T) {
	var gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-GearGuard-Signature")
	}))
	defer srv.Close()

	sink := NewWebhookSink(WebhookConfig{URL: srv.URL})
	if err := sink.Deliver(context.Background(), roles.AlertNotification{}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if gotSignature != "" {
		t.Errorf("signature = %q, want empty without secret", gotSignature)
	}
}
