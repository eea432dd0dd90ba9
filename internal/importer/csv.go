package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/wordkeeper/pkg/models"
)

// Positional columns shared by CSV and XLSX sources. Only the first two are
// required.
const (
	colText = iota
	colTranslation
	colFrequency
	colCEFR
	colPhonetic
	colCreatedAt
	colUpdatedAt
	colInterval
	colRepetition
	colEasinessFactor
	colDueDate
)

var errInsufficientData = errors.New("insufficient data")

const errNoDataRows = "file must contain a header and at least one data row"

// parseCSV skips the header line and blank lines. Rows are numbered by the
// physical line they start on.
func (im *Importer) parseCSV(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	res := Result{Errors: make([]string, 0)}
	header := true
	dataRows := 0
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// a broken line never stands in for the header
				if !header {
					dataRows++
				}
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: malformed CSV: %v", perr.StartLine, perr.Err))
				continue
			}
			return Result{}, fmt.Errorf("error reading CSV: %v", err)
		}
		if blank(fields) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}
		dataRows++
		im.addRow(&res, line, fields)
	}

	if dataRows == 0 {
		return Result{Errors: []string{errNoDataRows}}, nil
	}
	return res, nil
}

func (im *Importer) addRow(res *Result, row int, fields []string) {
	raw, err := fieldsToRecord(fields, im.now())
	if err != nil {
		res.addError(row, err)
		return
	}
	rec, err := im.normalize(raw)
	if err != nil {
		res.addError(row, err)
		return
	}
	res.Items = append(res.Items, rec)
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// fieldsToRecord maps positional columns onto a raw record. Unparseable
// optional values are treated as not supplied.
func fieldsToRecord(fields []string, now time.Time) (rawRecord, error) {
	if len(fields) < 2 {
		return rawRecord{}, errInsufficientData
	}
	col := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	raw := rawRecord{
		Text:        col(colText),
		Translation: col(colTranslation),
	}

	name, cefr := col(colFrequency), col(colCEFR)
	if tier, ok := models.TierByName(name); ok {
		raw.Frequency = &tier
	} else {
		tier := models.UndefinedTier(name, cefr)
		raw.Frequency = &tier
	}

	if p := col(colPhonetic); p != "" {
		raw.Phonetic = &models.Phonetic{Text: p}
	}
	raw.CreatedAt = parseTime(col(colCreatedAt))
	raw.UpdatedAt = parseTime(col(colUpdatedAt))

	interval, repetition, ef, due := col(colInterval), col(colRepetition), col(colEasinessFactor), col(colDueDate)
	if interval != "" || repetition != "" || ef != "" || due != "" {
		state := models.NewReviewState(now)
		if v, err := strconv.Atoi(interval); err == nil {
			state.Interval = v
		}
		if v, err := strconv.Atoi(repetition); err == nil {
			state.Repetition = v
		}
		if v, err := strconv.ParseFloat(ef, 64); err == nil && v != 0 {
			state.EasinessFactor = v
		}
		if t := parseTime(due); t != nil {
			state.DueDate = *t
		}
		raw.ReviewState = &state
	}
	return raw, nil
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
