package frequency

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/wordkeeper/pkg/models"
)

// Corpus maps words of a reference frequency list to their 1-based rank
type Corpus struct {
	ranks map[string]int
}

// NewCorpus wraps an in-memory rank table
func NewCorpus(ranks map[string]int) *Corpus {
	if ranks == nil {
		ranks = make(map[string]int)
	}
	return &Corpus{ranks: ranks}
}

// LoadCorpus reads a JSON object of word to rank
func LoadCorpus(r io.Reader) (*Corpus, error) {
	ranks := make(map[string]int)
	if err := json.NewDecoder(r).Decode(&ranks); err != nil {
		return nil, fmt.Errorf("failed to decode frequency corpus: %v", err)
	}
	return NewCorpus(ranks), nil
}

// LoadCorpusFile reads the corpus at path
func LoadCorpusFile(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frequency corpus: %v", err)
	}
	defer f.Close()
	return LoadCorpus(f)
}

// Len returns the number of ranked words
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ranks)
}

// Rank returns the word's rank, or models.UnknownRank when the corpus does
// not contain it. The lookup is exact.
func (c *Corpus) Rank(word string) int {
	if c == nil {
		return models.UnknownRank
	}
	if rank, ok := c.ranks[word]; ok {
		return rank
	}
	return models.UnknownRank
}

// TierFor classifies text by its rank. Only single words have a tier.
func (c *Corpus) TierFor(text string) (models.FrequencyTier, bool) {
	if !models.IsSingleWord(text) {
		return models.FrequencyTier{}, false
	}
	return models.TierForRank(c.Rank(text)), true
}
