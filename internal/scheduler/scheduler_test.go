package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordkeeper/internal/logger"
	mock_scheduler "github.com/example/wordkeeper/internal/scheduler/mock"
	"github.com/example/wordkeeper/internal/storage"
	"github.com/example/wordkeeper/pkg/models"
)

func at(day, hour, min int) time.Time {
	return time.Date(2024, 6, day, hour, min, 0, 0, time.UTC)
}

func dueWords(n int) []models.VocabularyRecord {
	return make([]models.VocabularyRecord, n)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_scheduler.NewMockNotifier(ctrl)
	words := mock_scheduler.NewMockDueSource(ctrl)
	prefs := storage.NewMemoryStore()
	require.NoError(t, SetNotificationTime(ctx, prefs, "08:30"))

	s := New(notifier, words, prefs, logger.Nop())

	// too early: nothing is read or sent
	sent, err := s.check(ctx, at(1, 8, 29))
	require.NoError(t, err)
	assert.False(t, sent)

	words.EXPECT().GetDueToday(gomock.Any()).Return(dueWords(3), nil)
	notifier.EXPECT().SendReminder(gomock.Any(), 3).Return(nil)
	sent, err = s.check(ctx, at(1, 8, 30))
	require.NoError(t, err)
	assert.True(t, sent)

	// once per day
	sent, err = s.check(ctx, at(1, 9, 0))
	require.NoError(t, err)
	assert.False(t, sent)

	// next day, after the preferred time
	words.EXPECT().GetDueToday(gomock.Any()).Return(dueWords(1), nil)
	notifier.EXPECT().SendReminder(gomock.Any(), 1).Return(nil)
	sent, err = s.check(ctx, at(2, 13, 0))
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestCheck_NothingDue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_scheduler.NewMockNotifier(ctrl)
	words := mock_scheduler.NewMockDueSource(ctrl)

	s := New(notifier, words, storage.NewMemoryStore(), logger.Nop())

	words.EXPECT().GetDueToday(gomock.Any()).Return(nil, nil).Times(1)
	sent, err := s.check(ctx, at(1, 10, 0))
	require.NoError(t, err)
	assert.False(t, sent)

	sent, err = s.check(ctx, at(1, 11, 0))
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestCheck_FailedSendIsRetried(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_scheduler.NewMockNotifier(ctrl)
	words := mock_scheduler.NewMockDueSource(ctrl)
	s := New(notifier, words, storage.NewMemoryStore(), logger.Nop(), WithDefaultTime("07:00"))

	boom := errors.New("network down")
	words.EXPECT().GetDueToday(gomock.Any()).Return(dueWords(2), nil).Times(2)
	gomock.InOrder(
		notifier.EXPECT().SendReminder(gomock.Any(), 2).Return(boom),
		notifier.EXPECT().SendReminder(gomock.Any(), 2).Return(nil),
	)

	_, err := s.check(ctx, at(1, 7, 0))
	assert.ErrorIs(t, err, boom)

	sent, err := s.check(ctx, at(1, 7, 1))
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestNotificationTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	prefs := storage.NewMemoryStore()
	s := New(nil, nil, prefs, logger.Nop(), WithDefaultTime("21:15"))

	got, err := s.NotificationTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "21:15", got)

	require.NoError(t, SetNotificationTime(ctx, prefs, "6:05"))
	got, err = s.NotificationTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "06:05", got)

	require.NoError(t, prefs.Set(ctx, storage.KeyNotificationTime, []byte(`"25:99"`)))
	got, err = s.NotificationTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "21:15", got)

	assert.Error(t, SetNotificationTime(ctx, prefs, "noon"))
}

func TestRunManualCheck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	notifier := mock_scheduler.NewMockNotifier(ctrl)
	words := mock_scheduler.NewMockDueSource(ctrl)
	s := New(notifier, words, storage.NewMemoryStore(), logger.Nop())

	words.EXPECT().GetDueToday(gomock.Any()).Return(dueWords(5), nil)
	notifier.EXPECT().SendReminder(gomock.Any(), 5).Return(nil)
	require.NoError(t, s.RunManualCheck(ctx))

	words.EXPECT().GetDueToday(gomock.Any()).Return(nil, nil)
	require.NoError(t, s.RunManualCheck(ctx))
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	notifier := mock_scheduler.NewMockNotifier(ctrl)
	words := mock_scheduler.NewMockDueSource(ctrl)
	prefs := storage.NewMemoryStore()

	sent := make(chan int, 1)
	words.EXPECT().GetDueToday(gomock.Any()).Return(dueWords(4), nil).AnyTimes()
	notifier.EXPECT().SendReminder(gomock.Any(), 4).DoAndReturn(func(_ context.Context, n int) error {
		sent <- n
		return nil
	}).Times(1)

	s := New(notifier, words, prefs, logger.Nop(),
		WithDefaultTime("00:00"),
		WithCheckInterval(10*time.Millisecond),
	)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case n := <-sent:
		assert.Equal(t, 4, n)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder was not sent")
	}
}
