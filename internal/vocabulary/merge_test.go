package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordkeeper/pkg/models"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	word := func(id, text string) models.VocabularyRecord {
		return models.VocabularyRecord{ID: id, Text: text, Translation: "t"}
	}

	tests := []struct {
		name       string
		current    []models.VocabularyRecord
		candidates []models.VocabularyRecord
		wantIDs    []string
		want       MergeResult
	}{
		{
			name:    "empty batch",
			current: []models.VocabularyRecord{word("1", "cat")},
			want:    MergeResult{},
		},
		{
			name:       "all new",
			candidates: []models.VocabularyRecord{word("1", "cat"), word("2", "dog")},
			wantIDs:    []string{"1", "2"},
			want:       MergeResult{Added: 2},
		},
		{
			name:       "skips existing text",
			current:    []models.VocabularyRecord{word("1", "cat")},
			candidates: []models.VocabularyRecord{word("2", "cat"), word("3", "dog")},
			wantIDs:    []string{"3"},
			want:       MergeResult{Added: 1, Skipped: 1},
		},
		{
			name:       "first occurrence in batch wins",
			candidates: []models.VocabularyRecord{word("1", "cat"), word("2", "cat"), word("3", "cat")},
			wantIDs:    []string{"1"},
			want:       MergeResult{Added: 1, Skipped: 2},
		},
		{
			name:       "case sensitive",
			current:    []models.VocabularyRecord{word("1", "cat")},
			candidates: []models.VocabularyRecord{word("2", "Cat")},
			wantIDs:    []string{"2"},
			want:       MergeResult{Added: 1},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fresh, got := Merge(tt.current, tt.candidates)
			assert.Equal(t, tt.want, got)

			var ids []string
			for _, r := range fresh {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
