package capture

import (
	"context"
	"errors"
	"strings"

	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/pkg/models"
)

// ErrInvalidSelection is returned for selections that are not worth saving
var ErrInvalidSelection = errors.New("capture: selection must have at least two characters and a letter")

// Adder persists a new word
type Adder interface {
	Add(ctx context.Context, c models.Candidate) (*models.VocabularyRecord, error)
}

// TierLookup classifies a word by corpus frequency
type TierLookup interface {
	TierFor(text string) (models.FrequencyTier, bool)
}

// Selection is text the user picked while reading, with its translation
type Selection struct {
	Text        string
	Translation string
	Phonetic    *models.Phonetic
	// Source is the surrounding text the selection was made in
	Source string
}

// Capturer turns selections into vocabulary records
type Capturer struct {
	store Adder
	tiers TierLookup
	log   *logger.Logger
}

// NewCapturer creates a Capturer. A nil tiers lookup classifies every word
// as unknown to the corpus.
func NewCapturer(store Adder, tiers TierLookup, log *logger.Logger) *Capturer {
	if log == nil {
		log = logger.Nop()
	}
	return &Capturer{store: store, tiers: tiers, log: log.With("service", "Capturer")}
}

// Capture cleans and validates the selection, lowercases it and saves it
// with its frequency tier and source sentence
func (c *Capturer) Capture(ctx context.Context, sel Selection) (*models.VocabularyRecord, error) {
	cleaned := CleanSelection(sel.Text)
	if !IsValidSelection(cleaned) {
		c.log.Debug("selection rejected", "text", sel.Text)
		return nil, ErrInvalidSelection
	}
	text := strings.ToLower(cleaned)

	tier := models.TierForRank(models.UnknownRank)
	if c.tiers != nil {
		if t, ok := c.tiers.TierFor(text); ok {
			tier = t
		}
	}

	return c.store.Add(ctx, models.Candidate{
		Text:          text,
		Translation:   strings.TrimSpace(sel.Translation),
		FrequencyTier: tier,
		Phonetic:      sel.Phonetic,
		Context:       ExtractContext(sel.Source, cleaned),
	})
}
