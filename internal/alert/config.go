package alert

import "time"

// AlertConfig holds alert module settings.
type AlertConfig struct {
	// RetentionPeriod is how long resolved alerts are kept before purging.
	RetentionPeriod     time.Duration `mapstructure:"retention_period"`
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval"`
}

func DefaultConfig() AlertConfig {
	return AlertConfig{
		RetentionPeriod:     90 * 24 * time.Hour,
		MaintenanceInterval: 1 * time.Hour,
	}
}
