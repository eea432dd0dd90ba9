package vocabulary

import "github.com/example/wordkeeper/pkg/models"

// MergeResult reports how many candidates a batch added and skipped
type MergeResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Merge splits candidates into records whose text is not yet present in
// current and the rest. Within the batch the first occurrence of a text wins.
func Merge(current, candidates []models.VocabularyRecord) ([]models.VocabularyRecord, MergeResult) {
	seen := make(map[string]struct{}, len(current)+len(candidates))
	for _, r := range current {
		seen[r.Text] = struct{}{}
	}

	var (
		fresh  []models.VocabularyRecord
		result MergeResult
	)
	for _, c := range candidates {
		if _, dup := seen[c.Text]; dup {
			result.Skipped++
			continue
		}
		seen[c.Text] = struct{}{}
		fresh = append(fresh, c.Clone())
		result.Added++
	}
	return fresh, result
}
