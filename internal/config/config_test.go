package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 12, cfg.SentMailAfterHours)
	assert.Equal(t, 12*time.Hour, cfg.DispatchDelay())
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 10*time.Second, cfg.RetentlyTimeout)
	assert.False(t, cfg.TestModeEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SENT_MAIL_AFTER", "48")
	t.Setenv("SWEEP_INTERVAL", "1h")
	t.Setenv("IS_TEST_MODE", "1")
	t.Setenv("TEST_EMAIL_STRING", "purdyandfigg.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.DispatchDelay())
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.True(t, cfg.TestModeEnabled())
	assert.Equal(t, "purdyandfigg.com", cfg.TestEmailString)
}

func TestValidateRequiresServerSettings(t *testing.T) {
	t.Setenv("RETENTLY_WEBHOOK_URL", "")
	t.Setenv("WEBHOOK_USERNAME", "")
	t.Setenv("WEBHOOK_PASSWORD", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	t.Setenv("RETENTLY_WEBHOOK_URL", "https://app.retently.com/api/webhook/abc")
	t.Setenv("WEBHOOK_USERNAME", "hook-user")
	t.Setenv("WEBHOOK_PASSWORD", "hook-pass")

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}
