package alert

import (
	"database/sql"

	"github.com/gearguard/gearguard/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create alert tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS alert_alerts (
						id TEXT PRIMARY KEY,
						equipment_id TEXT NOT NULL,
						severity TEXT NOT NULL,
						failure_probability REAL NOT NULL,
						days_until_failure INTEGER NOT NULL,
						recommended_action TEXT NOT NULL,
						status TEXT NOT NULL DEFAULT 'ACTIVE',
						health_score REAL NOT NULL DEFAULT 0,
						confidence TEXT NOT NULL DEFAULT 'low',
						source TEXT NOT NULL DEFAULT 'ml_prediction',
						notes TEXT NOT NULL DEFAULT '',
						created_at DATETIME NOT NULL,
						acknowledged_at DATETIME,
						acknowledged_by TEXT NOT NULL DEFAULT '',
						resolved_at DATETIME,
						resolved_by TEXT NOT NULL DEFAULT ''
					)`,
					`CREATE INDEX IF NOT EXISTS idx_alert_alerts_equipment ON alert_alerts(equipment_id, status)`,
					`CREATE INDEX IF NOT EXISTS idx_alert_alerts_status_created ON alert_alerts(status, created_at)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
