package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultRetryPeriod    = 600 * time.Second
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultHeartbeatSpec  = "@every 1h"
	DefaultLogFileMaxMB   = 50
	DefaultLogFileBackups = 5
)

// ErrMissingCredentials is matched by every *MissingError.
var ErrMissingCredentials = errors.New("required credentials are not set")

// MissingError lists the required variables that were absent or invalid.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingCredentials, strings.Join(e.Names, ", "))
}

func (e *MissingError) Is(target error) bool { return target == ErrMissingCredentials }

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken     string
	TelegramToken      string
	TelegramChatID     int64
	Endpoint           string
	TelegramAPIURL     string // Empty means the public Bot API
	RetryPeriod        time.Duration
	HTTPTimeout        time.Duration
	LogLevel           string
	Environment        string
	LogFile            string
	LogFileMaxMB       int
	LogFileBackups     int
	HeartbeatSpec      string // Empty disables the heartbeat job
	TelegramRatePerSec float64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return LoadFrom(os.LookupEnv)
}

// LoadFrom builds the configuration from an arbitrary lookup function.
func LoadFrom(lookup func(string) (string, bool)) (*AppConfig, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &AppConfig{}
	var missing []string

	cfg.PracticumToken = get("PRACTICUM_TOKEN")
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}

	cfg.TelegramToken = get("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	chatIDStr := get("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	} else {
		id, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			missing = append(missing, "TELEGRAM_CHAT_ID (not an integer)")
		}
		cfg.TelegramChatID = id
	}

	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}

	var err error

	cfg.Endpoint = get("PRACTICUM_ENDPOINT") // Empty means the API client's default
	cfg.TelegramAPIURL = get("TELEGRAM_API_URL")

	if cfg.RetryPeriod, err = durationOr(get("RETRY_PERIOD"), DefaultRetryPeriod); err != nil {
		return nil, fmt.Errorf("invalid RETRY_PERIOD: %w", err)
	}
	if cfg.HTTPTimeout, err = durationOr(get("HTTP_TIMEOUT"), DefaultHTTPTimeout); err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(get("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = get("LOG_FILE")
	if cfg.LogFileMaxMB, err = intOr(get("LOG_FILE_MAX_MB"), DefaultLogFileMaxMB); err != nil {
		return nil, fmt.Errorf("invalid LOG_FILE_MAX_MB: %w", err)
	}
	if cfg.LogFileBackups, err = intOr(get("LOG_FILE_BACKUPS"), DefaultLogFileBackups); err != nil {
		return nil, fmt.Errorf("invalid LOG_FILE_BACKUPS: %w", err)
	}

	if spec, ok := lookup("HEARTBEAT_CRON_SPEC"); ok {
		cfg.HeartbeatSpec = strings.TrimSpace(spec)
	} else {
		cfg.HeartbeatSpec = DefaultHeartbeatSpec
	}

	cfg.TelegramRatePerSec = 1
	if v := get("TELEGRAM_RATE_PER_SEC"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid TELEGRAM_RATE_PER_SEC %q", v)
		}
		cfg.TelegramRatePerSec = rps
	}

	return cfg, nil
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func intOr(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	return n, nil
}
