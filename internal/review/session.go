package review

import (
	"context"
	"errors"
	"time"

	"github.com/example/wordkeeper/internal/spaced_repetition"
	"github.com/example/wordkeeper/pkg/models"
)

// ErrSessionFinished is returned when grading with an empty queue
var ErrSessionFinished = errors.New("review: no words left in this session")

// Store is the part of the vocabulary store a session needs
type Store interface {
	GetDueToday(ctx context.Context) ([]models.VocabularyRecord, error)
	Grade(ctx context.Context, id string, quality spaced_repetition.QualityResponse) (models.VocabularyRecord, error)
}

// Session walks through today's due words. A graded word that is still due
// goes to the back of the queue; otherwise it counts as completed.
type Session struct {
	store Store
	now   func() time.Time

	queue     []models.VocabularyRecord
	completed int
	stats     models.SessionStats
}

// NewSession loads the due set in collection order
func NewSession(ctx context.Context, store Store, now func() time.Time) (*Session, error) {
	if now == nil {
		now = time.Now
	}
	due, err := store.GetDueToday(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		store: store,
		now:   now,
		queue: due,
		stats: models.SessionStats{
			StartTime:  now(),
			TotalWords: len(due),
		},
	}
	if len(due) == 0 {
		s.stats.EndTime = s.stats.StartTime
	}
	return s, nil
}

// Current returns the word to show next
func (s *Session) Current() (models.VocabularyRecord, bool) {
	if len(s.queue) == 0 {
		return models.VocabularyRecord{}, false
	}
	return s.queue[0], true
}

// Grade records quality for the current word and advances the queue
func (s *Session) Grade(ctx context.Context, quality spaced_repetition.QualityResponse) (models.VocabularyRecord, error) {
	current, ok := s.Current()
	if !ok {
		return models.VocabularyRecord{}, ErrSessionFinished
	}
	if !quality.IsValid() {
		return models.VocabularyRecord{}, spaced_repetition.ErrInvalidQuality
	}

	graded, err := s.store.Grade(ctx, current.ID, quality)
	if err != nil {
		return models.VocabularyRecord{}, err
	}
	s.stats.GradeCounts[quality]++

	due, err := s.store.GetDueToday(ctx)
	if err != nil {
		return models.VocabularyRecord{}, err
	}

	rest := s.queue[1:]
	if again, ok := findByID(due, current.ID); ok {
		s.queue = append(append([]models.VocabularyRecord(nil), rest...), again)
	} else {
		s.queue = rest
		s.completed++
	}

	if len(s.queue) == 0 {
		s.stats.EndTime = s.now()
	}
	return graded, nil
}

// Done reports whether every word has been completed
func (s *Session) Done() bool {
	return len(s.queue) == 0
}

// Remaining returns the number of queued words
func (s *Session) Remaining() int {
	return len(s.queue)
}

// Completed returns the number of words no longer due today
func (s *Session) Completed() int {
	return s.completed
}

func (s *Session) Stats() models.SessionStats {
	return s.stats
}

func findByID(records []models.VocabularyRecord, id string) (models.VocabularyRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.VocabularyRecord{}, false
}
