package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	DataDir string `mapstructure:"data_dir"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.data_dir", "./data")
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/gearguard.db")

	// Plugin defaults
	v.SetDefault("plugins.predict.enabled", true)
	v.SetDefault("plugins.predict.url", "")
	v.SetDefault("plugins.predict.timeout", "5s")
	v.SetDefault("plugins.alert.enabled", true)
	v.SetDefault("plugins.alert.retention_period", "2160h")
	v.SetDefault("plugins.alert.maintenance_interval", "1h")
	v.SetDefault("plugins.maintenance.enabled", true)
	v.SetDefault("plugins.maintenance.retention_period", "4320h")
	v.SetDefault("plugins.maintenance.maintenance_interval", "1h")
	v.SetDefault("plugins.notify.enabled", true)
	v.SetDefault("plugins.notify.workers", 3)
	v.SetDefault("plugins.notify.max_attempts", 3)
	v.SetDefault("plugins.notify.backoff_base", "30s")
	v.SetDefault("plugins.notify.poll_interval", "10s")
	v.SetDefault("plugins.notify.sinks", []string{"log"})
	v.SetDefault("plugins.feed.enabled", true)
	v.SetDefault("plugins.feed.send_buffer", 256)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gearguard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gearguard")
	}

	// Environment variable support: GG_SERVER_PORT=9090
	v.SetEnvPrefix("GG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
