package notify

import "time"

// NotifyConfig holds notify plugin settings.
type NotifyConfig struct {
	// Workers is the number of concurrent delivery workers.
	Workers int `mapstructure:"workers"`

	// MaxAttempts caps delivery attempts per job before it is parked
	// in the failure queue.
	MaxAttempts int `mapstructure:"max_attempts"`

	// BackoffBase is the base retry delay; the delay doubles with each
	// failed attempt.
	BackoffBase time.Duration `mapstructure:"backoff_base"`

	// PollInterval controls how often the dispatcher scans for due jobs.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Sinks lists the delivery channels to use (log, webhook, email).
	Sinks []string `mapstructure:"sinks"`

	Webhook WebhookConfig `mapstructure:"webhook"`
	Email   EmailConfig   `mapstructure:"email"`
}

// WebhookConfig configures the webhook sink.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EmailConfig configures the SMTP email sink.
type EmailConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// DefaultConfig returns the default notify configuration.
func DefaultConfig() NotifyConfig {
	return NotifyConfig{
		Workers:      3,
		MaxAttempts:  3,
		BackoffBase:  30 * time.Second,
		PollInterval: 10 * time.Second,
		Sinks:        []string{"log"},
		Webhook: WebhookConfig{
			Timeout: 10 * time.Second,
		},
		Email: EmailConfig{
			Port: 587,
		},
	}
}
