package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/internal/storage"
	"github.com/example/wordkeeper/pkg/models"
)

// Значения по умолчанию
const (
	DefaultNotificationTime = "09:00"
	DefaultCheckInterval    = time.Minute
)

const timeLayout = "15:04"

// Notifier sends a reminder about words waiting for review
type Notifier interface {
	SendReminder(ctx context.Context, count int) error
}

// DueSource lists today's due words
type DueSource interface {
	GetDueToday(ctx context.Context) ([]models.VocabularyRecord, error)
}

// Scheduler reminds the user once a day, at the preferred notification
// time, when words are due
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	words     DueSource
	prefs     storage.Store
	log       *logger.Logger

	now         func() time.Time
	every       time.Duration
	defaultTime string

	mu       sync.Mutex
	lastSent string // date of the last reminder, YYYY-MM-DD
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock replaces the wall clock. Its location decides the local day.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithCheckInterval sets how often the notification time is checked
func WithCheckInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.every = d
		}
	}
}

// WithDefaultTime sets the notification time used when no preference is stored
func WithDefaultTime(hhmm string) Option {
	return func(s *Scheduler) {
		if _, err := time.Parse(timeLayout, hhmm); err == nil {
			s.defaultTime = hhmm
		}
	}
}

// New creates a new scheduler instance
func New(notifier Notifier, words DueSource, prefs storage.Store, log *logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		scheduler:   gocron.NewScheduler(time.Local),
		notifier:    notifier,
		words:       words,
		prefs:       prefs,
		log:         log.With("service", "Scheduler"),
		now:         time.Now,
		every:       DefaultCheckInterval,
		defaultTime: DefaultNotificationTime,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.every).Do(func() {
		if _, err := s.Check(context.Background()); err != nil {
			s.log.Error("reminder check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder check: %v", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Check sends today's reminder once the preferred time has been reached.
// It reports whether a reminder was sent.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	return s.check(ctx, s.now())
}

func (s *Scheduler) check(ctx context.Context, now time.Time) (bool, error) {
	today := now.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSent == today {
		return false, nil
	}

	at, err := s.NotificationTime(ctx)
	if err != nil {
		return false, err
	}
	if now.Format(timeLayout) < at {
		s.log.Debug("before notification time, skipping", "now", now.Format(timeLayout), "at", at)
		return false, nil
	}

	due, err := s.words.GetDueToday(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get due words: %w", err)
	}
	if len(due) == 0 {
		s.log.Debug("no words due, skipping reminder")
		s.lastSent = today
		return false, nil
	}

	if err := s.notifier.SendReminder(ctx, len(due)); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	s.lastSent = today
	s.log.Info("reminder sent", "count", len(due))
	return true, nil
}

// RunManualCheck sends a reminder right away if any words are due
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	due, err := s.words.GetDueToday(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	return s.notifier.SendReminder(ctx, len(due))
}

// NotificationTime returns the stored "HH:MM" preference, or the default
// when none is stored or the stored value is malformed
func (s *Scheduler) NotificationTime(ctx context.Context) (string, error) {
	raw, ok, err := s.prefs.Get(ctx, storage.KeyNotificationTime)
	if err != nil {
		return "", fmt.Errorf("failed to read notification time: %w", err)
	}
	if !ok {
		return s.defaultTime, nil
	}

	var at string
	if err := json.Unmarshal(raw, &at); err != nil {
		s.log.Warn("malformed notification time, using default", "value", string(raw))
		return s.defaultTime, nil
	}
	if _, err := time.Parse(timeLayout, at); err != nil {
		s.log.Warn("malformed notification time, using default", "value", at)
		return s.defaultTime, nil
	}
	return at, nil
}

// UpdateNotificationTime stores a new "HH:MM" preference
func (s *Scheduler) UpdateNotificationTime(ctx context.Context, hhmm string) error {
	return SetNotificationTime(ctx, s.prefs, hhmm)
}

// SetNotificationTime stores the "HH:MM" preference
func SetNotificationTime(ctx context.Context, prefs storage.Store, hhmm string) error {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return fmt.Errorf("notification time must be HH:MM: %v", err)
	}
	raw, err := json.Marshal(t.Format(timeLayout))
	if err != nil {
		return err
	}
	return prefs.Set(ctx, storage.KeyNotificationTime, raw)
}

// LogNotifier writes reminders to the log. It is used when no messenger is
// configured.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) SendReminder(_ context.Context, count int) error {
	n.Log.Info("words are waiting for review", "count", count)
	return nil
}
