package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/example/wordkeeper/pkg/models"
)

// jsonRecord mirrors rawRecord with dates kept as strings, so empty or
// date-only values do not fail the whole item
type jsonRecord struct {
	ID          string                `json:"id"`
	Text        string                `json:"text"`
	Translation string                `json:"translation"`
	Frequency   *models.FrequencyTier `json:"frequency"`
	Phonetic    *models.Phonetic      `json:"phonetic"`
	Context     string                `json:"context"`
	CreatedAt   string                `json:"createdAt"`
	UpdatedAt   string                `json:"updatedAt"`
	ReviewState *jsonReviewState      `json:"sm2"`
}

type jsonReviewState struct {
	Interval       int     `json:"interval"`
	Repetition     int     `json:"repetition"`
	EasinessFactor float64 `json:"efactor"`
	DueDate        string  `json:"dueDate"`
}

// raw converts dates with parseTime. Empty or unparseable dates count as
// not supplied.
func (j jsonRecord) raw(now time.Time) rawRecord {
	r := rawRecord{
		ID:          j.ID,
		Text:        j.Text,
		Translation: j.Translation,
		Frequency:   j.Frequency,
		Phonetic:    j.Phonetic,
		Context:     j.Context,
		CreatedAt:   parseTime(j.CreatedAt),
		UpdatedAt:   parseTime(j.UpdatedAt),
	}
	if j.ReviewState != nil {
		state := models.ReviewState{
			Interval:       j.ReviewState.Interval,
			Repetition:     j.ReviewState.Repetition,
			EasinessFactor: j.ReviewState.EasinessFactor,
			DueDate:        now.UTC(),
		}
		if t := parseTime(j.ReviewState.DueDate); t != nil {
			state.DueDate = *t
		}
		r.ReviewState = &state
	}
	return r
}

// parseJSON expects a top-level array of record objects. Items are numbered
// by their 1-based position in the array.
func (im *Importer) parseJSON(ctx context.Context, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read JSON: %v", err)
	}

	if !json.Valid(data) {
		return Result{Errors: []string{"invalid JSON format"}}, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Result{Errors: []string{"file must contain an array of objects"}}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Result{Errors: []string{"file must contain an array of objects"}}, nil
	}

	res := Result{Errors: make([]string, 0)}
	for i, raw := range items {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		row := i + 1

		var item jsonRecord
		if err := json.Unmarshal(raw, &item); err != nil {
			res.addError(row, fmt.Errorf("invalid record: %v", err))
			continue
		}
		rec, err := im.normalize(item.raw(im.now()))
		if err != nil {
			res.addError(row, err)
			continue
		}
		res.Items = append(res.Items, rec)
	}
	return res, nil
}
