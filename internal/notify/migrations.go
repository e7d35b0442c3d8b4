package notify

import (
	"database/sql"

	"github.com/gearguard/gearguard/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create notify_jobs table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS notify_jobs (
						id TEXT PRIMARY KEY,
						alert_id TEXT NOT NULL,
						equipment_id TEXT NOT NULL,
						severity TEXT NOT NULL,
						payload TEXT NOT NULL,
						status TEXT NOT NULL DEFAULT 'PENDING',
						attempt_count INTEGER NOT NULL DEFAULT 0,
						last_error TEXT NOT NULL DEFAULT '',
						next_attempt_at TIMESTAMP NOT NULL,
						delivered_at TIMESTAMP,
						created_at TIMESTAMP NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_notify_jobs_status_next
						ON notify_jobs(status, next_attempt_at);
					CREATE INDEX IF NOT EXISTS idx_notify_jobs_alert
						ON notify_jobs(alert_id);
				`)
				return err
			},
		},
	}
}
