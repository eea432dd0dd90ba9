package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStats(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		grades  [6]int
		percent int
		level   PerformanceLevel
	}{
		{name: "empty", percent: 100, level: PerformanceExcellent},
		{name: "all perfect", grades: [6]int{0, 0, 0, 0, 0, 3}, percent: 100, level: PerformanceExcellent},
		{name: "exactly eighty", grades: [6]int{0, 0, 1, 0, 2, 2}, percent: 80, level: PerformanceExcellent},
		{name: "two thirds", grades: [6]int{0, 0, 0, 1, 2, 0}, percent: 67, level: PerformanceGood},
		{name: "half", grades: [6]int{1, 0, 0, 0, 1, 0}, percent: 50, level: PerformanceNeedsPractice},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := SessionStats{GradeCounts: tt.grades, StartTime: start}
			assert.Equal(t, tt.percent, s.GoodPercentage())
			assert.Equal(t, tt.level, s.PerformanceLevel())
		})
	}
}

func TestSessionStats_Duration(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := SessionStats{StartTime: start}
	assert.Zero(t, s.Duration())

	s.EndTime = start.Add(95*time.Second + 400*time.Millisecond)
	assert.Equal(t, 95*time.Second, s.Duration())
}
