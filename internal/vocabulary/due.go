package vocabulary

import (
	"time"

	"github.com/example/wordkeeper/pkg/models"
)

// IsDue reports whether the record's due day, in now's location, is today or
// earlier. Time of day is ignored.
func IsDue(record models.VocabularyRecord, now time.Time) bool {
	return !startOfDay(record.ReviewState.DueDate, now.Location()).After(startOfDay(now, now.Location()))
}

// DueToday returns the records due on or before today, in collection order
func DueToday(records []models.VocabularyRecord, now time.Time) []models.VocabularyRecord {
	due := make([]models.VocabularyRecord, 0, len(records))
	for _, r := range records {
		if IsDue(r, now) {
			due = append(due, r)
		}
	}
	return due
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
