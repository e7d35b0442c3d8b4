package feed

// FeedConfig holds feed plugin settings.
type FeedConfig struct {
	// Enabled toggles the live event feed.
	Enabled bool `mapstructure:"enabled"`

	// SendBuffer is the per-client outbound queue depth. Clients that
	// fall further behind are disconnected.
	SendBuffer int `mapstructure:"send_buffer"`
}

// DefaultConfig returns the default feed configuration.
func DefaultConfig() FeedConfig {
	return FeedConfig{
		Enabled:    true,
		SendBuffer: 256,
	}
}
