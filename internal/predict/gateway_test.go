package predict

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/testutil"
	"go.uber.org/zap"
)

func TestGatewayFailureProbability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"failure_probability": 0.73}`))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, 5*time.Second, zap.NewNop())
	p, err := g.FailureProbability(context.Background(), "RADAR-001", testutil.HealthyFeatures())
	if err != nil {
		t.Fatalf("FailureProbability() error = %v", err)
	}
	if p != 0.73 {
		t.Errorf("probability = %v, want 0.73", p)
	}
}

func TestGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, 20*time.Millisecond, zap.NewNop())
	_, err := g.FailureProbability(context.Background(), "RADAR-001", testutil.HealthyFeatures())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream family", err)
	}
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Errorf("error = %v, want ErrUpstreamTimeout", err)
	}
}

func TestGatewayUnreachable(t *testing.T) {
	// Closed server: connections are refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGateway(url, time.Second, zap.NewNop())
	_, err := g.FailureProbability(context.Background(), "RADAR-001", testutil.HealthyFeatures())
	if !errors.Is(err, ErrUpstreamUnreachable) {
		t.Fatalf("error = %v, want ErrUpstreamUnreachable", err)
	}
}

func TestGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, time.Second, zap.NewNop())
	_, err := g.FailureProbability(context.Background(), "RADAR-001", testutil.HealthyFeatures())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream family", err)
	}
}

func TestGatewayMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"failure_probability": `},
		{"missing field", `{}`},
		{"out of range high", `{"failure_probability": 1.5}`},
		{"out of range negative", `{"failure_probability": -0.1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGateway(srv.URL, time.Second, zap.NewNop())
			_, err := g.FailureProbability(context.Background(), "RADAR-001", testutil.HealthyFeatures())
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}
