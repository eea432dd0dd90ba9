package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordkeeper/internal/config"
	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/internal/scheduler"
)

func newTestApp(t *testing.T, driver, dsn string) (*app, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		Env: "development",
		Storage: config.StorageConfig{
			Driver:            driver,
			DSN:               dsn,
			OptimisticLocking: true,
			MaxRetries:        3,
		},
		Reminder: config.ReminderConfig{
			CheckInterval: time.Minute,
			DefaultTime:   "09:00",
		},
	}
	a, err := newApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	out := &bytes.Buffer{}
	a.out = out
	return a, out
}

func TestApp_Workflow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, out := newTestApp(t, "memory", "")

	require.NoError(t, a.run(ctx, "add", []string{"Apple,", "-t", "яблуко", "-context", "I ate an apple. Then I slept."}))
	assert.Contains(t, out.String(), "added apple: яблуко")

	out.Reset()
	require.NoError(t, a.run(ctx, "due", nil))
	assert.True(t, strings.HasPrefix(out.String(), "apple\tяблуко\t"))

	out.Reset()
	a.in = strings.NewReader("\n5\n")
	require.NoError(t, a.run(ctx, "review", nil))
	assert.Contains(t, out.String(), "I ate an apple.")
	assert.Contains(t, out.String(), "reviewed 1 of 1, 100% good (excellent)")

	out.Reset()
	require.NoError(t, a.run(ctx, "due", nil))
	assert.Equal(t, "nothing to review today\n", out.String())

	out.Reset()
	require.NoError(t, a.run(ctx, "stats", nil))
	assert.Equal(t, "total\t1\ndue\t0\nmastered\t0\nAdvanced/Rare\t1\n", out.String())

	dir := t.TempDir()
	require.NoError(t, a.run(ctx, "export", []string{"csv", "-o", dir}))
	files, err := filepath.Glob(filepath.Join(dir, "vocabulary_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	out.Reset()
	require.NoError(t, a.run(ctx, "import", []string{files[0]}))
	assert.Equal(t, "imported 0, skipped 1 duplicates, 0 rows rejected\n", out.String())
}

func TestApp_AddRejectsInvalidSelection(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, "memory", "")
	assert.Error(t, a.run(context.Background(), "add", []string{"!", "-t", "знак"}))
	assert.ErrorIs(t, a.run(context.Background(), "add", nil), errUsage)
}

func TestApp_Remind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, out := newTestApp(t, "sqlite", ":memory:")

	require.NoError(t, a.run(ctx, "remind", []string{"-at", "07:30"}))
	assert.Equal(t, "reminder time set to 07:30\n", out.String())

	at, err := scheduler.New(nil, a.words, a.kv, logger.Nop()).NotificationTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "07:30", at)

	assert.Error(t, a.run(ctx, "remind", []string{"-at", "soon"}))
	require.NoError(t, a.run(ctx, "remind", nil))
}

func TestApp_UnknownCommand(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, "memory", "")
	assert.ErrorIs(t, a.run(context.Background(), "fly", nil), errUsage)
}
