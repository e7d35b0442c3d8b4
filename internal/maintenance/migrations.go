package maintenance

import (
	"database/sql"

	"github.com/gearguard/gearguard/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create maintenance_tasks table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS maintenance_tasks (
						id TEXT PRIMARY KEY,
						equipment_id TEXT NOT NULL,
						alert_id TEXT NOT NULL DEFAULT '',
						title TEXT NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						task_type TEXT NOT NULL,
						priority TEXT NOT NULL,
						status TEXT NOT NULL DEFAULT 'SCHEDULED',
						scheduled_date TIMESTAMP NOT NULL,
						assigned_to TEXT NOT NULL DEFAULT '',
						estimated_duration_hours REAL NOT NULL DEFAULT 0,
						estimated_cost REAL NOT NULL DEFAULT 0,
						completed_date TIMESTAMP,
						actual_duration_hours REAL NOT NULL DEFAULT 0,
						actual_cost REAL NOT NULL DEFAULT 0,
						completion_notes TEXT NOT NULL DEFAULT '',
						source TEXT NOT NULL DEFAULT 'manual',
						created_at TIMESTAMP NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_equipment
						ON maintenance_tasks(equipment_id, status);
					CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_status_scheduled
						ON maintenance_tasks(status, scheduled_date);
					CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_alert
						ON maintenance_tasks(alert_id);
				`)
				return err
			},
		},
	}
}
