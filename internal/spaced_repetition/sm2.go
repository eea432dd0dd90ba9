package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/wordkeeper/pkg/models"
)

var (
	ErrInvalidQuality = errors.New("spaced_repetition: quality must be between 0 and 5")
	ErrInvalidState   = errors.New("spaced_repetition: malformed review state")
)

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// IsValid reports whether q is one of the six SM-2 grades
func (q QualityResponse) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passing reports whether q counts as a successful recall
func (q QualityResponse) Passing() bool {
	return q >= QualityCorrectDifficult
}

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Now is the wall clock used by Process
	Now func() time.Time
}

// NewSM2 creates a new SM2 instance using the system clock
func NewSM2() *SM2 {
	return &SM2{Now: time.Now}
}

// Process grades state at the current time
func (sm *SM2) Process(state models.ReviewState, quality QualityResponse) (models.ReviewState, error) {
	return Practice(state, quality, sm.Now())
}

// Practice returns the review state that follows grading state with quality
// at now. The input is never modified.
func Practice(state models.ReviewState, quality QualityResponse, now time.Time) (models.ReviewState, error) {
	if !quality.IsValid() {
		return models.ReviewState{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}
	if err := Validate(state); err != nil {
		return models.ReviewState{}, err
	}

	interval, ef, repetition := ComputeNextInterval(int(quality), state.Repetition, state.EasinessFactor, state.Interval)

	return models.ReviewState{
		Interval:       interval,
		Repetition:     repetition,
		EasinessFactor: ef,
		DueDate:        now.AddDate(0, 0, interval).UTC(),
	}, nil
}

// Validate rejects states the algorithm cannot schedule from
func Validate(state models.ReviewState) error {
	switch {
	case state.Interval < 0:
		return fmt.Errorf("%w: negative interval %d", ErrInvalidState, state.Interval)
	case state.Repetition < 0:
		return fmt.Errorf("%w: negative repetition %d", ErrInvalidState, state.Repetition)
	case math.IsNaN(state.EasinessFactor) || math.IsInf(state.EasinessFactor, 0) || state.EasinessFactor <= 0:
		return fmt.Errorf("%w: easiness factor %v", ErrInvalidState, state.EasinessFactor)
	}
	return nil
}

// ComputeNextInterval вычисляет следующий интервал повторения на основе ответа.
// Returns the new interval in days, easiness factor and repetition count.
func ComputeNextInterval(quality, repetitions int, currentEF float64, currentInterval int) (int, float64, int) {
	// The EF update applies to failing grades too
	newEF := currentEF + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if newEF < models.MinEasinessFactor {
		newEF = models.MinEasinessFactor
	}

	if !QualityResponse(quality).Passing() {
		// Review again tomorrow
		return 1, newEF, 0
	}

	newRepetitions := repetitions + 1
	var newInterval int
	switch newRepetitions {
	case 1:
		newInterval = 1
	case 2:
		newInterval = 6
	default:
		newInterval = int(math.Round(float64(currentInterval) * newEF))
	}

	return newInterval, newEF, newRepetitions
}

// IsWordMastered determines if a word is considered "mastered":
// reviewed successfully at least 5 times in a row with an interval of 30+ days
func IsWordMastered(state models.ReviewState) bool {
	return state.Repetition >= 5 && state.Interval >= 30
}
