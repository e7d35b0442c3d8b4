package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteProblem(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantType   string
	}{
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) { NotFound(w, "no such alert", "/api/v1/alert/x") },
			wantStatus: http.StatusNotFound,
			wantType:   ProblemTypeNotFound,
		},
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter) { BadRequest(w, "invalid temperature reading", "/api/v1/predict") },
			wantStatus: http.StatusBadRequest,
			wantType:   ProblemTypeBadRequest,
		},
		{
			name:       "conflict",
			write:      func(w http.ResponseWriter) { Conflict(w, "already resolved", "/api/v1/alert/x/resolve") },
			wantStatus: http.StatusConflict,
			wantType:   ProblemTypeConflict,
		},
		{
			name:       "upstream unavailable",
			write:      func(w http.ResponseWriter) { UpstreamUnavailable(w, "model timeout", "/api/v1/predict") },
			wantStatus: http.StatusBadGateway,
			wantType:   ProblemTypeUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want application/problem+json", ct)
			}

			var p Problem
			if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if p.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", p.Type, tt.wantType)
			}
			if p.Status != tt.wantStatus {
				t.Errorf("body status = %d, want %d", p.Status, tt.wantStatus)
			}
			if p.Detail == "" {
				t.Error("Detail empty")
			}
		})
	}
}
