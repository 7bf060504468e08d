package config

import (
	"testing"
	"time"

	"cyclesbot/bot"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{EnvServerURL, EnvLogLevel, EnvLogFormat, EnvRetryPolicy, EnvMaxAttempts,
		EnvLostThreshold, EnvJournalPath, EnvPoolSize, EnvHandshakeTimeout} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:8080/ws", cfg.ServerURL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, bot.PolicyFallback, cfg.RetryPolicy)
	require.Equal(t, bot.DefaultMaxAttempts, cfg.MaxAttempts)
	require.Equal(t, bot.DefaultLostThreshold, cfg.LostThreshold)
	require.Empty(t, cfg.JournalPath, "journal is off by default")
	require.Equal(t, 4, cfg.PoolSize)
	require.Equal(t, 5*time.Second, cfg.HandshakeTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvServerURL, "ws://arena:9000/ws")
	t.Setenv(EnvRetryPolicy, "strict")
	t.Setenv(EnvMaxAttempts, "50")
	t.Setenv(EnvLostThreshold, "0")
	t.Setenv(EnvJournalPath, "/tmp/j.db")
	t.Setenv(EnvPoolSize, "8")
	t.Setenv(EnvHandshakeTimeout, "250ms")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ws://arena:9000/ws", cfg.ServerURL)
	require.Equal(t, bot.PolicyStrict, cfg.RetryPolicy)
	require.Equal(t, 50, cfg.MaxAttempts)
	require.Equal(t, 0, cfg.LostThreshold)
	require.Equal(t, "/tmp/j.db", cfg.JournalPath)
	require.Equal(t, 8, cfg.PoolSize)
	require.Equal(t, 250*time.Millisecond, cfg.HandshakeTimeout)
	require.Equal(t, "json", cfg.LogFormat)
	require.Len(t, cfg.SelectorOptions(), 2)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		EnvRetryPolicy:      "sometimes",
		EnvMaxAttempts:      "many",
		EnvLostThreshold:    "-1",
		EnvPoolSize:         "0",
		EnvHandshakeTimeout: "soon",
		EnvLogFormat:        "xml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
