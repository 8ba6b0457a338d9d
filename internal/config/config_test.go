package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "https://licensing.posguard.io", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)
	assert.Equal(t, 5*time.Minute, cfg.WarnBefore)
	assert.Equal(t, time.Minute, cfg.StatsTTL)
	assert.Equal(t, 5*time.Minute, cfg.ListTTL)
	assert.Equal(t, 10*time.Minute, cfg.DetailTTL)
	assert.NotEmpty(t, cfg.CredentialsFile)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LICADMIN_API_URL", "http://localhost:9090")
	t.Setenv("SESSION_WARN_MINUTES", "2")
	t.Setenv("CACHE_LIST_TTL_SECONDS", "60")
	t.Setenv("FEATURE_OTP_LOGIN", "false")

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:9090", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.WarnBefore)
	assert.Equal(t, time.Minute, cfg.ListTTL)
	assert.False(t, cfg.OTPLoginEnabled)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("LICADMIN_TEST_INT", "not-a-number")
	assert.Equal(t, 42, GetEnvAsInt("LICADMIN_TEST_INT", 42))
}

func TestGetEnvAsBool_InvalidFallsBack(t *testing.T) {
	t.Setenv("LICADMIN_TEST_BOOL", "maybe")
	assert.True(t, GetEnvAsBool("LICADMIN_TEST_BOOL", true))
}
