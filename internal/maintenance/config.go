package maintenance

import "time"

// MaintenanceConfig holds maintenance plugin settings.
type MaintenanceConfig struct {
	// RetentionPeriod controls how long completed and cancelled tasks
	// are kept before being purged.
	RetentionPeriod time.Duration `mapstructure:"retention_period"`

	// MaintenanceInterval controls how often the retention loop runs.
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval"`
}

// DefaultConfig returns the default maintenance configuration.
func DefaultConfig() MaintenanceConfig {
	return MaintenanceConfig{
		RetentionPeriod:     180 * 24 * time.Hour,
		MaintenanceInterval: time.Hour,
	}
}
