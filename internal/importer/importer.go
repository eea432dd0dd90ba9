package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/pkg/models"
)

// ErrUnsupportedFormat is returned for file extensions the importer cannot read
var ErrUnsupportedFormat = errors.New("importer: unsupported file format")

// Supported extensions
const (
	FormatJSON = ".json"
	FormatCSV  = ".csv"
	FormatXLSX = ".xlsx"
)

// Result holds the normalized records and one message per rejected row.
// Partial success is normal; the caller decides what to keep.
type Result struct {
	Items  []models.VocabularyRecord
	Errors []string
}

func (r *Result) addError(row int, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("Row %d: %v", row, err))
}

// Importer turns external files into vocabulary records
type Importer struct {
	log   *logger.Logger
	now   func() time.Time
	newID func() string
	rules []Rule
}

// Option configures an Importer
type Option func(*Importer)

// WithClock replaces the wall clock used for default timestamps
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// WithIDGenerator replaces the id generator used for records without an id
func WithIDGenerator(newID func() string) Option {
	return func(im *Importer) { im.newID = newID }
}

// WithRules replaces the validation chain
func WithRules(rules ...Rule) Option {
	return func(im *Importer) { im.rules = rules }
}

// New creates an Importer
func New(log *logger.Logger, opts ...Option) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	im := &Importer{
		log:   log.With("service", "Importer"),
		now:   time.Now,
		newID: uuid.NewString,
		rules: DefaultRules,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportPath reads the file at path
func (im *Importer) ImportPath(ctx context.Context, path string) (Result, error) {
	if !supported(path) {
		return im.ImportFile(ctx, path, nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	return im.ImportFile(ctx, filepath.Base(path), f)
}

// ImportFile parses r according to the extension of name. An unsupported
// extension yields a single error message and no items.
func (im *Importer) ImportFile(ctx context.Context, name string, r io.Reader) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		res Result
		err error
	)
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case FormatJSON:
		res, err = im.parseJSON(ctx, r)
	case FormatCSV:
		res, err = im.parseCSV(ctx, r)
	case FormatXLSX:
		res, err = im.parseXLSX(ctx, r)
	default:
		return Result{
			Errors: []string{fmt.Sprintf("unsupported file format %q: use .json, .csv or .xlsx", ext)},
		}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Result{}, err
	}

	im.log.Info("file imported",
		"file", name,
		"items", len(res.Items),
		"errors", len(res.Errors),
	)
	return res, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case FormatJSON, FormatCSV, FormatXLSX:
		return true
	}
	return false
}
