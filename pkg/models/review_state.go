package models

import "time"

// Default SM-2 values for a freshly captured or imported word
const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3
)

// ReviewState is the per-word scheduling record used by the SM-2 algorithm.
// It is a value type: the engine returns a new one on every grade.
type ReviewState struct {
	Interval       int       `json:"interval"`   // Days until next review
	Repetition     int       `json:"repetition"` // Consecutive successful repetitions
	EasinessFactor float64   `json:"efactor"`
	DueDate        time.Time `json:"dueDate"`
}

// NewReviewState returns the default state: due immediately
func NewReviewState(now time.Time) ReviewState {
	return ReviewState{
		Interval:       0,
		Repetition:     0,
		EasinessFactor: DefaultEasinessFactor,
		DueDate:        now.UTC(),
	}
}
