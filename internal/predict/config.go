package predict

import "time"

// PredictConfig holds prediction gateway settings.
type PredictConfig struct {
	// URL is the remote model endpoint. Empty enables the local simulator.
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() PredictConfig {
	return PredictConfig{
		URL:     "",
		Timeout: 5 * time.Second,
	}
}
