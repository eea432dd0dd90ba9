package vocabulary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordkeeper/pkg/models"
)

func recordDue(text string, due time.Time) models.VocabularyRecord {
	return models.VocabularyRecord{
		ID:          text,
		Text:        text,
		Translation: text,
		ReviewState: models.ReviewState{EasinessFactor: models.DefaultEasinessFactor, DueDate: due},
	}
}

func TestIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{name: "long ago", due: now.AddDate(0, 0, -30), want: true},
		{name: "yesterday", due: now.AddDate(0, 0, -1), want: true},
		{name: "earlier today", due: now.Add(-10 * time.Hour), want: true},
		{name: "later today", due: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), want: true},
		{name: "tomorrow midnight", due: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), want: false},
		{name: "next week", due: now.AddDate(0, 0, 7), want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsDue(recordDue("w", tt.due), now))
		})
	}
}

func TestIsDue_UsesLocalCalendarDay(t *testing.T) {
	t.Parallel()

	kyiv := time.FixedZone("UTC+2", 2*60*60)
	// 23:00 UTC on the 10th is already the 11th in UTC+2
	due := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)

	assert.False(t, IsDue(recordDue("w", due), time.Date(2024, 3, 10, 20, 0, 0, 0, kyiv)))
	assert.True(t, IsDue(recordDue("w", due), time.Date(2024, 3, 11, 8, 0, 0, 0, kyiv)))
}

func TestDueToday_KeepsCollectionOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []models.VocabularyRecord{
		recordDue("c", now),
		recordDue("future", now.AddDate(0, 0, 1)),
		recordDue("a", now.AddDate(0, 0, -5)),
		recordDue("b", now.AddDate(0, 0, -1)),
	}

	due := DueToday(records, now)

	var texts []string
	for _, r := range due {
		texts = append(texts, r.Text)
	}
	assert.Equal(t, []string{"c", "a", "b"}, texts)
}

func TestDueToday_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DueToday(nil, time.Now()))
}
