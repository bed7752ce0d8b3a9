// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger from the application configuration.
// The returned closer releases the log file, if one was opened.
func New(cfg *config.AppConfig) (*logrus.Logger, io.Closer) {
	log := logrus.New()

	var closer io.Closer = nopCloser{}
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxMB, // megabytes
			MaxBackups: cfg.LogFileBackups,
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}
	log.SetOutput(out)

	Configure(log, cfg.LogLevel, cfg.Environment)

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	log.Debugf("Log format set for environment: %s", cfg.Environment)
	return log, closer
}

// Configure applies level and formatter to an existing logger.
func Configure(log *logrus.Logger, level, environment string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", level, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(lvl)
	}

	env := strings.ToLower(environment)
	if env == "production" || env == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
}

// Bootstrap returns a logger usable before the configuration is known.
func Bootstrap() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	Configure(log, "info", os.Getenv("ENVIRONMENT"))
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
