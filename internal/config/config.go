// Package config provides configuration loading for the sellerdesk client.
//
// Configuration comes from sellerdesk.yaml (searched in the current
// directory, $HOME/.sellerdesk, and /etc/sellerdesk), overridable via
// SELLERDESK_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level client configuration.
type Config struct {
	// API configures the backend endpoint and the request layer.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Session configures where the persisted session lives.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Mail configures the bulk-mail batch dispatcher.
	Mail MailConfig `yaml:"mail" mapstructure:"mail"`

	// Audit configures the local activity log.
	Audit AuditConfig `yaml:"audit" mapstructure:"audit"`
}

// APIConfig configures the backend endpoint and retry behavior.
type APIConfig struct {
	// BaseURL is the dashboard backend base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,base_url"`

	// Timeout is the per-request HTTP timeout (e.g. "30s").
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RetryAttempts is the total dispatch budget for network-class failures.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"omitempty,min=1,max=10"`

	// RetryBackoff is the base backoff; the wait before attempt n+1 is
	// backoff * n.
	RetryBackoff time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
}

// SessionConfig configures session persistence.
type SessionConfig struct {
	// File is the session file path. Defaults to ~/.sellerdesk/session.json.
	File string `yaml:"file" mapstructure:"file"`
}

// MailConfig configures the bulk-mail dispatcher.
type MailConfig struct {
	// BatchSize is how many recipients go into one API call.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"omitempty,min=1,max=500"`

	// BatchDelay is the pause between batches.
	BatchDelay time.Duration `yaml:"batch_delay" mapstructure:"batch_delay"`
}

// AuditConfig configures the local activity log.
type AuditConfig struct {
	// Dir is the directory for activity-YYYY-MM-DD.log files.
	// Defaults to ~/.sellerdesk/activity.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// RetentionDays is how long activity files are kept (default 7).
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days" validate:"omitempty,min=1,max=365"`
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	home, _ := os.UserHomeDir()

	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.RetryAttempts <= 0 {
		c.API.RetryAttempts = 3
	}
	if c.API.RetryBackoff <= 0 {
		c.API.RetryBackoff = time.Second
	}
	if c.Session.File == "" {
		c.Session.File = filepath.Join(home, ".sellerdesk", "session.json")
	}
	if c.Mail.BatchSize <= 0 {
		c.Mail.BatchSize = 50
	}
	if c.Mail.BatchDelay <= 0 {
		c.Mail.BatchDelay = 2 * time.Second
	}
	if c.Audit.Dir == "" {
		c.Audit.Dir = filepath.Join(home, ".sellerdesk", "activity")
	}
	if c.Audit.RetentionDays <= 0 {
		c.Audit.RetentionDays = 7
	}
}

// setViperDefaults seeds viper so env-only configuration picks up the same
// defaults as file-based configuration.
func setViperDefaults() {
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("api.retry_attempts", 3)
	viper.SetDefault("api.retry_backoff", "1s")
	viper.SetDefault("mail.batch_size", 50)
	viper.SetDefault("mail.batch_delay", "2s")
	viper.SetDefault("audit.retention_days", 7)
}
