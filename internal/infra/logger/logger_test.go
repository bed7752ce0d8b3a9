package logger

import (
	"os"
	"path/filepath"
	"testing"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevelAndFormatter(t *testing.T) {
	log := logrus.New()

	Configure(log, "DEBUG", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	Configure(log, "loud", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	log, closer := New(&config.AppConfig{
		LogLevel:       "info",
		Environment:    "production",
		LogFile:        path,
		LogFileMaxMB:   1,
		LogFileBackups: 1,
	})
	log.WithField("component", "test").Info("hello file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
