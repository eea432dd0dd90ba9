package models

import (
	"math"
	"time"
)

// PerformanceLevel rates a finished review session
type PerformanceLevel string

const (
	PerformanceExcellent     PerformanceLevel = "excellent"
	PerformanceGood          PerformanceLevel = "good"
	PerformanceNeedsPractice PerformanceLevel = "needsPractice"
)

// SessionStats tracks grades given during one review session
type SessionStats struct {
	GradeCounts [6]int    `json:"grades_counts"` // Index is the 0-5 grade
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TotalWords  int       `json:"total_words"`
}

// TotalGrades returns the number of grades recorded
func (s SessionStats) TotalGrades() int {
	total := 0
	for _, c := range s.GradeCounts {
		total += c
	}
	return total
}

// GoodPercentage is the rounded share of grades 4 and 5.
// An empty session counts as 100%.
func (s SessionStats) GoodPercentage() int {
	total := s.TotalGrades()
	if total == 0 {
		return 100
	}
	good := s.GradeCounts[4] + s.GradeCounts[5]
	return int(math.Round(float64(good) / float64(total) * 100))
}

// PerformanceLevel maps the good percentage to a level
func (s SessionStats) PerformanceLevel() PerformanceLevel {
	total := s.TotalGrades()
	if total == 0 {
		return PerformanceExcellent
	}
	good := float64(s.GradeCounts[4]+s.GradeCounts[5]) / float64(total) * 100
	switch {
	case good >= 80:
		return PerformanceExcellent
	case good >= 60:
		return PerformanceGood
	default:
		return PerformanceNeedsPractice
	}
}

// Duration of the session, truncated to whole seconds. Zero until ended.
func (s SessionStats) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Truncate(time.Second)
}
