package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir(), "missing")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "data/wordkeeper.db", cfg.Storage.DSN)
	assert.True(t, cfg.Storage.OptimisticLocking)
	assert.Equal(t, 3, cfg.Storage.MaxRetries)
	assert.Equal(t, time.Minute, cfg.Reminder.CheckInterval)
	assert.Equal(t, "09:00", cfg.Reminder.DefaultTime)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
env: production
storage:
  driver: redis
  redis_addr: localhost:6379
reminder:
  check_interval: 30s
  default_time: "07:30"
  chat_id: 42
`)
	t.Setenv("WORDKEEPER_REMINDER_DEFAULT_TIME", "20:15")
	t.Setenv("TELEGRAM_BOT_TOKEN", "secret")

	cfg, err := load(dir, "test")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, "wordkeeper:changes", cfg.Storage.RedisChannel)
	assert.Equal(t, 30*time.Second, cfg.Reminder.CheckInterval)
	assert.Equal(t, "20:15", cfg.Reminder.DefaultTime)
	assert.Equal(t, "secret", cfg.Reminder.TelegramToken)
	assert.Equal(t, int64(42), cfg.Reminder.ChatID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "storage:\n  driver: mongo\n"},
		{name: "redis without address", body: "storage:\n  driver: redis\n"},
		{name: "postgres without dsn", body: "storage:\n  driver: postgres\n  dsn: \"\"\n"},
		{name: "bad default time", body: "reminder:\n  default_time: \"9am\"\n"},
		{name: "tiny interval", body: "reminder:\n  check_interval: 10ms\n"},
		{name: "unknown env", body: "env: staging\n"},
		{name: "malformed yaml", body: "storage: [\n"},
		{name: "token without chat", body: "reminder:\n  telegram_token: secret\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.body), "test")
			assert.Error(t, err)
		})
	}
}
