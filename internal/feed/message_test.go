package feed

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEncodeEnvelope(t *testing.T) {
	now := time.Now().UTC()
	b := encode(Envelope{Type: "alert.created", Timestamp: now, Data: map[string]string{"id": "a1"}})

	var got Envelope
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "alert.created" {
		t.Errorf("Type = %q, want alert.created", got.Type)
	}
	if got.Data == nil {
		t.Error("Data missing from encoded envelope")
	}
}

func TestEncodeFallsBackOnUnmarshalableData(t *testing.T) {
	b := encode(Envelope{Type: "alert.created", Data: make(chan int)})

	var got Envelope
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("fallback payload not valid JSON: %v", err)
	}
	if got.Type != "alert.created" {
		t.Errorf("Type = %q, want alert.created", got.Type)
	}
	if got.Data != nil {
		t.Errorf("Data = %v, want dropped", got.Data)
	}
}
