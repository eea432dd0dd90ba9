package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/example/wordkeeper/pkg/models"
	"github.com/example/wordkeeper/pkg/validator"
)

// rawRecord is an untrusted, partially filled record from an import source.
// Nil pointers mean the source did not supply the field.
type rawRecord struct {
	ID          string
	Text        string
	Translation string
	Frequency   *models.FrequencyTier
	Phonetic    *models.Phonetic
	Context     string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	ReviewState *models.ReviewState
}

// Rule checks one property of a raw record
type Rule func(r rawRecord) error

var (
	errMissingText        = errors.New("missing required field text")
	errMissingTranslation = errors.New("missing required field translation")
	errNotSingleWord      = errors.New("text must be a single word")
)

// DefaultRules are evaluated in order; the first failure rejects the record
var DefaultRules = []Rule{
	requireText,
	requireTranslation,
	singleWord,
}

func requireText(r rawRecord) error {
	if validator.Var(strings.TrimSpace(r.Text), "required") != nil {
		return errMissingText
	}
	return nil
}

func requireTranslation(r rawRecord) error {
	if validator.Var(strings.TrimSpace(r.Translation), "required") != nil {
		return errMissingTranslation
	}
	return nil
}

func singleWord(r rawRecord) error {
	if validator.Var(r.Text, "singleword") != nil {
		return errNotSingleWord
	}
	return nil
}

func (im *Importer) normalize(r rawRecord) (models.VocabularyRecord, error) {
	for _, rule := range im.rules {
		if err := rule(r); err != nil {
			return models.VocabularyRecord{}, err
		}
	}

	now := im.now().UTC()
	rec := models.VocabularyRecord{
		ID:          r.ID,
		Text:        strings.TrimSpace(r.Text),
		Translation: r.Translation,
		Context:     r.Context,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReviewState: models.NewReviewState(now),
	}
	if rec.ID == "" {
		rec.ID = im.newID()
	}
	if r.Frequency != nil {
		rec.FrequencyTier = *r.Frequency
	} else {
		rec.FrequencyTier = models.UndefinedTier("", "")
	}
	if r.Phonetic != nil {
		p := *r.Phonetic
		rec.Phonetic = &p
	}
	if r.CreatedAt != nil {
		rec.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		rec.UpdatedAt = *r.UpdatedAt
	}
	// honored verbatim, the engine validates on the next grade
	if r.ReviewState != nil {
		rec.ReviewState = *r.ReviewState
	}
	return rec, nil
}
