// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	Port               string `envconfig:"PORT" default:"3000"`

	DBUser     string `envconfig:"DB_USER" default:"webhook_app"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"1234"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"webhook_dixa_db"`

	RetentlyWebhookURL string        `envconfig:"RETENTLY_WEBHOOK_URL"`
	RetentlyTimeout    time.Duration `envconfig:"RETENTLY_TIMEOUT" default:"10s"`

	WebhookUsername string `envconfig:"WEBHOOK_USERNAME"`
	WebhookPassword string `envconfig:"WEBHOOK_PASSWORD"`

	// SENT_MAIL_AFTER is expressed in hours, matching the deployment env files.
	SentMailAfterHours int           `envconfig:"SENT_MAIL_AFTER" default:"12"`
	SweepInterval      time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`

	IsTestMode      string `envconfig:"IS_TEST_MODE" default:"0"`
	TestEmailString string `envconfig:"TEST_EMAIL_STRING" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the server cannot run without. The seeder and
// sweep binaries load the same config but only need the database settings.
func (c *Config) Validate() error {
	if c.RetentlyWebhookURL == "" {
		return fmt.Errorf("RETENTLY_WEBHOOK_URL is required")
	}
	if c.WebhookUsername == "" || c.WebhookPassword == "" {
		return fmt.Errorf("WEBHOOK_USERNAME and WEBHOOK_PASSWORD are required")
	}
	return nil
}

func (c *Config) DispatchDelay() time.Duration {
	return time.Duration(c.SentMailAfterHours) * time.Hour
}

func (c *Config) TestModeEnabled() bool {
	return c.IsTestMode == "1"
}
