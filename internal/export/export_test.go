package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordkeeper/internal/importer"
	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/pkg/models"
)

var created = time.Date(2024, 2, 29, 8, 15, 0, 0, time.UTC)

func sampleRecords() []models.VocabularyRecord {
	return []models.VocabularyRecord{
		{
			ID:            "1",
			Text:          "bank",
			Translation:   "берег, \"банк\"",
			FrequencyTier: models.TierImportant,
			Phonetic:      &models.Phonetic{Text: "/bæŋk/", Audio: "https://example.com/bank.mp3"},
			CreatedAt:     created,
			UpdatedAt:     created.Add(time.Hour),
			ReviewState: models.ReviewState{
				Interval:       6,
				Repetition:     2,
				EasinessFactor: 2.36,
				DueDate:        created.AddDate(0, 0, 6),
			},
		},
		{
			ID:            "2",
			Text:          "gist",
			Translation:   "суть\tзміст",
			FrequencyTier: models.UndefinedTier("", "C1"),
			CreatedAt:     created,
			UpdatedAt:     created,
			ReviewState:   models.NewReviewState(created),
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 7, 4, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "vocabulary_2024-07-04.json", FileName(FormatJSON, now))
	assert.Equal(t, "vocabulary_2024-07-04.csv", FileName(FormatCSV, now))
	assert.Equal(t, "vocabulary_2024-07-04.xlsx", FileName(FormatXLSX, now))
	assert.Equal(t, "vocabulary_anki_2024-07-04.txt", FileName(FormatAnki, now))
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRecords()))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {"))

	var decoded []models.VocabularyRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRecords(), decoded)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteAnki(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatAnki, sampleRecords()))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "bank\tберег, \"банк\"\t/bæŋk/\tB1-B2\t29.02.2024", lines[0])
	assert.Equal(t, "gist\tсуть зміст\t\tC1\t29.02.2024", lines[1])
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	assert.Error(t, Write(&bytes.Buffer{}, Format("pdf"), nil))
}

func TestRoundTripThroughImporter(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatCSV, FormatXLSX, FormatJSON} {
		format := format
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, sampleRecords()))

			im := importer.New(logger.Nop())
			res, err := im.ImportFile(context.Background(), FileName(format, created), &buf)
			require.NoError(t, err)
			require.Empty(t, res.Errors)
			require.Len(t, res.Items, 2)

			for i, want := range sampleRecords() {
				got := res.Items[i]
				assert.Equal(t, want.Text, got.Text)
				assert.Equal(t, want.Translation, got.Translation)
				assert.Equal(t, want.FrequencyTier.Name, got.FrequencyTier.Name)
				assert.Equal(t, want.FrequencyTier.CEFRLevel, got.FrequencyTier.CEFRLevel)
				assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
				assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
				assert.Equal(t, want.ReviewState.Interval, got.ReviewState.Interval)
				assert.Equal(t, want.ReviewState.Repetition, got.ReviewState.Repetition)
				assert.Equal(t, want.ReviewState.EasinessFactor, got.ReviewState.EasinessFactor)
				assert.True(t, want.ReviewState.DueDate.Equal(got.ReviewState.DueDate))
			}
		})
	}
}
