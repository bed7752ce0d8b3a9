package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validEnv() map[string]string {
	return map[string]string{
		"PRACTICUM_TOKEN":  "p-token",
		"TELEGRAM_TOKEN":   "t-token",
		"TELEGRAM_CHAT_ID": "123456",
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(validEnv()))
	require.NoError(t, err)

	assert.Equal(t, "p-token", cfg.PracticumToken)
	assert.Equal(t, "t-token", cfg.TelegramToken)
	assert.EqualValues(t, 123456, cfg.TelegramChatID)
	assert.Empty(t, cfg.Endpoint)
	assert.Equal(t, 600*time.Second, cfg.RetryPeriod)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultHeartbeatSpec, cfg.HeartbeatSpec)
	assert.Equal(t, 50, cfg.LogFileMaxMB)
	assert.Equal(t, 5, cfg.LogFileBackups)
	assert.Equal(t, 1.0, cfg.TelegramRatePerSec)
}

func TestLoadFromOverrides(t *testing.T) {
	env := validEnv()
	env["RETRY_PERIOD"] = "30s"
	env["LOG_LEVEL"] = "DEBUG"
	env["ENVIRONMENT"] = "Production"
	env["HEARTBEAT_CRON_SPEC"] = ""
	env["TELEGRAM_RATE_PER_SEC"] = "0.5"

	cfg, err := LoadFrom(lookupMap(env))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RetryPeriod)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Empty(t, cfg.HeartbeatSpec)
	assert.Equal(t, 0.5, cfg.TelegramRatePerSec)
}

func TestLoadFromMissingCredentials(t *testing.T) {
	env := validEnv()
	delete(env, "TELEGRAM_CHAT_ID")
	env["PRACTICUM_TOKEN"] = "   "

	_, err := LoadFrom(lookupMap(env))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))

	var me *MissingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"PRACTICUM_TOKEN", "TELEGRAM_CHAT_ID"}, me.Names)
}

func TestLoadFromInvalidChatID(t *testing.T) {
	env := validEnv()
	env["TELEGRAM_CHAT_ID"] = "@channel"

	_, err := LoadFrom(lookupMap(env))
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestLoadFromInvalidOptionalValues(t *testing.T) {
	for key, value := range map[string]string{
		"RETRY_PERIOD":          "ten minutes",
		"HTTP_TIMEOUT":          "-1s",
		"LOG_FILE_MAX_MB":       "big",
		"TELEGRAM_RATE_PER_SEC": "0",
	} {
		env := validEnv()
		env[key] = value
		_, err := LoadFrom(lookupMap(env))
		require.Error(t, err, key)
		assert.False(t, errors.Is(err, ErrMissingCredentials), key)
	}
}

func TestLoadReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PRACTICUM_TOKEN", "p")
	t.Setenv("TELEGRAM_TOKEN", "t")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load()
	require.NoError(t, err)
	assert.EqualValues(t, -100200, cfg.TelegramChatID)
}
