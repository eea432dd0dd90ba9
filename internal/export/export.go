package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordkeeper/pkg/models"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatAnki Format = "anki"
	FormatXLSX Format = "xlsx"
)

// Header is the CSV/XLSX column layout, in the order the importer reads it
var Header = []string{
	"Слово",
	"Переклад",
	"Рівень частотності",
	"CEFR рівень",
	"Фонетика",
	"Дата створення",
	"Дата оновлення",
	"Інтервал повторення (днів)",
	"Кількість повторень",
	"Easiness Factor",
	"Дата наступного огляду",
}

const sheetName = "Sheet1"

// ParseFormat converts a user-supplied name into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatAnki, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName returns the download name for an export made at now
func FileName(format Format, now time.Time) string {
	date := now.Format("2006-01-02")
	switch format {
	case FormatAnki:
		return fmt.Sprintf("vocabulary_anki_%s.txt", date)
	default:
		return fmt.Sprintf("vocabulary_%s.%s", date, format)
	}
}

// Write encodes records in the given format
func Write(w io.Writer, format Format, records []models.VocabularyRecord) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatAnki:
		return WriteAnki(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// WriteJSON writes the full records as an indented array
func WriteJSON(w io.Writer, records []models.VocabularyRecord) error {
	if records == nil {
		records = []models.VocabularyRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %v", err)
	}
	return nil
}

// WriteCSV writes a header and one flattened row per record
func WriteCSV(w io.Writer, records []models.VocabularyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write CSV row: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAnki writes tab-separated word, translation, phonetic, CEFR level and
// creation date, ready for Anki's text importer
func WriteAnki(w io.Writer, records []models.VocabularyRecord) error {
	clean := strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")
	lines := make([]string, 0, len(records))
	for _, r := range records {
		cells := []string{
			r.Text,
			r.Translation,
			phoneticText(r),
			r.FrequencyTier.CEFRLevel,
			r.CreatedAt.Format("02.01.2006"),
		}
		for i := range cells {
			cells[i] = clean.Replace(cells[i])
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write Anki export: %v", err)
	}
	return nil
}

// WriteXLSX writes the CSV layout into a single-sheet workbook
func WriteXLSX(w io.Writer, records []models.VocabularyRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, Header); err != nil {
		return err
	}
	for i, r := range records {
		if err := setRow(f, i+2, row(r)); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %v", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %v", n, err)
	}
	return nil
}

func row(r models.VocabularyRecord) []string {
	return []string{
		r.Text,
		r.Translation,
		r.FrequencyTier.Name,
		r.FrequencyTier.CEFRLevel,
		phoneticText(r),
		r.CreatedAt.Format(time.RFC3339Nano),
		r.UpdatedAt.Format(time.RFC3339Nano),
		strconv.Itoa(r.ReviewState.Interval),
		strconv.Itoa(r.ReviewState.Repetition),
		strconv.FormatFloat(r.ReviewState.EasinessFactor, 'f', -1, 64),
		r.ReviewState.DueDate.Format(time.RFC3339Nano),
	}
}

func phoneticText(r models.VocabularyRecord) string {
	if r.Phonetic == nil {
		return ""
	}
	return r.Phonetic.Text
}
