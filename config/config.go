// Package config loads bot and arena settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cyclesbot/bot"
)

// Environment variables.
const (
	EnvServerURL        = "CYCLES_SERVER_URL"
	EnvLogLevel         = "CYCLES_LOG_LEVEL"
	EnvLogFormat        = "CYCLES_LOG_FORMAT"
	EnvRetryPolicy      = "CYCLES_RETRY_POLICY"
	EnvMaxAttempts      = "CYCLES_MAX_ATTEMPTS"
	EnvLostThreshold    = "CYCLES_LOST_THRESHOLD"
	EnvJournalPath      = "CYCLES_JOURNAL_PATH"
	EnvPoolSize         = "CYCLES_POOL_SIZE"
	EnvHandshakeTimeout = "CYCLES_HANDSHAKE_TIMEOUT"
)

type Config struct {
	ServerURL        string
	LogLevel         string
	LogFormat        string
	RetryPolicy      bot.Policy
	MaxAttempts      int
	LostThreshold    int
	JournalPath      string
	PoolSize         int
	HandshakeTimeout time.Duration
}

// Load reads the environment. Unset variables fall back to defaults; set
// but malformed ones are errors.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:   getEnv(EnvServerURL, "ws://localhost:8080/ws"),
		LogLevel:    getEnv(EnvLogLevel, "info"),
		LogFormat:   getEnv(EnvLogFormat, "console"),
		JournalPath: getEnv(EnvJournalPath, ""),
	}

	var err error
	if cfg.RetryPolicy, err = bot.ParsePolicy(getEnv(EnvRetryPolicy, "fallback")); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvRetryPolicy, err)
	}
	if cfg.MaxAttempts, err = getEnvInt(EnvMaxAttempts, bot.DefaultMaxAttempts, 1); err != nil {
		return nil, err
	}
	if cfg.LostThreshold, err = getEnvInt(EnvLostThreshold, bot.DefaultLostThreshold, 0); err != nil {
		return nil, err
	}
	if cfg.PoolSize, err = getEnvInt(EnvPoolSize, 4, 1); err != nil {
		return nil, err
	}
	if cfg.HandshakeTimeout, err = getEnvDuration(EnvHandshakeTimeout, 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%s: unknown log format %q", EnvLogFormat, cfg.LogFormat)
	}
	return cfg, nil
}

// SelectorOptions translates the retry settings for bot.NewSelector.
func (c *Config) SelectorOptions() []bot.SelectorOption {
	return []bot.SelectorOption{
		bot.WithPolicy(c.RetryPolicy),
		bot.WithMaxAttempts(c.MaxAttempts),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue, minimum int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value < minimum {
		return 0, fmt.Errorf("%s: %d is below %d", key, value, minimum)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return value, nil
}
