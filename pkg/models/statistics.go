package models

// VocabularyStats summarizes the collection for display
type VocabularyStats struct {
	Total    int            `json:"total"`
	DueToday int            `json:"due_today"`
	Mastered int            `json:"mastered"`
	ByTier   map[string]int `json:"by_tier"` // Keyed by FrequencyTier.NameEn
}
