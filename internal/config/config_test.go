package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memberd", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "0 8 * * *", cfg.Mail.DigestSchedule)
	assert.False(t, cfg.Lifecycle.StrictReapproval)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LIFECYCLE_STRICT_REAPPROVAL", "true")
	t.Setenv("MAIL_OPS_ADDRESS", "ops@example.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Lifecycle.StrictReapproval)
	assert.Equal(t, "ops@example.org", cfg.Mail.OpsAddress)
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "memberd_test", cfg.Database.Name)
	assert.Equal(t, "no-reply@test.local", cfg.Mail.From)
}
