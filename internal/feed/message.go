package feed

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format for feed messages. Type carries the
// originating event topic.
type Envelope struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// encode marshals an envelope for transmission. Marshal failures fall
// back to a bare envelope so subscribers still see the event type.
func encode(e Envelope) []byte {
	b, err := json.Marshal(e)
	if err != nil {
		b, _ = json.Marshal(Envelope{Type: e.Type, Timestamp: e.Timestamp})
	}
	return b
}
