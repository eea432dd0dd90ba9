package models

import (
	"strings"
	"time"
)

// Phonetic holds the pronunciation of a word
type Phonetic struct {
	Audio string `json:"audio"`
	Text  string `json:"text"`
}

// VocabularyRecord is the persisted unit of the vocabulary collection
type VocabularyRecord struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Translation   string        `json:"translation"`
	FrequencyTier FrequencyTier `json:"frequency"`
	Phonetic      *Phonetic     `json:"phonetic,omitempty"`
	Context       string        `json:"context,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	ReviewState   ReviewState   `json:"sm2"`
}

// Clone returns a copy that shares no pointers with r
func (r VocabularyRecord) Clone() VocabularyRecord {
	out := r
	if r.Phonetic != nil {
		p := *r.Phonetic
		out.Phonetic = &p
	}
	out.FrequencyTier.Range = append([]int(nil), r.FrequencyTier.Range...)
	return out
}

// Candidate is a word about to be added by a capture action
type Candidate struct {
	Text          string
	Translation   string
	FrequencyTier FrequencyTier
	Phonetic      *Phonetic
	Context       string
}

// RecordPatch carries a field-level update. Nil fields are left untouched.
type RecordPatch struct {
	Text          *string
	Translation   *string
	FrequencyTier *FrequencyTier
	Phonetic      *Phonetic
	Context       *string
	ReviewState   *ReviewState
}

// IsSingleWord reports whether text is exactly one whitespace-separated token.
// Hyphens and apostrophes inside a token are not separators ("mother-in-law").
func IsSingleWord(text string) bool {
	return len(strings.Fields(text)) == 1
}
