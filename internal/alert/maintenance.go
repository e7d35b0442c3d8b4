package alert

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// startRetention launches a background goroutine that periodically
// deletes resolved alerts past the retention window.
func (m *Module) startRetention() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.MaintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.runRetention()
			}
		}
	}()
}

// runRetention executes a single retention cycle.
func (m *Module) runRetention() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-m.cfg.RetentionPeriod)
	deleted, err := m.store.DeleteOldResolved(ctx, cutoff)
	if err != nil {
		m.logger.Warn("failed to delete old resolved alerts", zap.Error(err))
	} else if deleted > 0 {
		m.logger.Info("purged old resolved alerts", zap.Int64("count", deleted))
	}
}
