package notify

import (
	"context"

	"github.com/gearguard/gearguard/pkg/roles"
)

// Sink delivers an alert notification over one channel. Deliver must
// be safe for concurrent use; the dispatcher calls it from multiple
// workers.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n roles.AlertNotification) error
}
