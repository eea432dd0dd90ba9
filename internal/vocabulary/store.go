package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordkeeper/internal/logger"
	"github.com/example/wordkeeper/internal/spaced_repetition"
	"github.com/example/wordkeeper/internal/storage"
	"github.com/example/wordkeeper/pkg/models"
)

const defaultMaxRetries = 3

// Store reads and writes the vocabulary collection. The whole collection is
// one serialized value: every mutation reads it, transforms it and writes it
// back.
type Store struct {
	kv    storage.Store
	log   *logger.Logger
	now   func() time.Time
	newID func() string
	key   string

	optimistic bool
	maxRetries int
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the record id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithKey stores the collection under a different key
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithOptimisticLocking makes every write a compare-and-swap against the
// snapshot it was computed from. A conflicting write is retried up to
// maxRetries times. It has no effect when the backend is not a storage.Swapper.
func WithOptimisticLocking(maxRetries int) Option {
	return func(s *Store) {
		s.optimistic = true
		if maxRetries > 0 {
			s.maxRetries = maxRetries
		}
	}
}

// NewStore creates a Store over kv
func NewStore(kv storage.Store, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		kv:         kv,
		log:        log.With("service", "VocabularyStore"),
		now:        time.Now,
		newID:      uuid.NewString,
		key:        storage.KeyVocabulary,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

type snapshot struct {
	records []models.VocabularyRecord
	raw     []byte
	exists  bool
}

func (s *Store) load(ctx context.Context) (snapshot, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	if !ok {
		return snapshot{records: []models.VocabularyRecord{}}, nil
	}
	if raw == nil {
		raw = []byte{}
	}
	records, err := decode(raw)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{records: records, raw: raw, exists: true}, nil
}

func decode(raw []byte) ([]models.VocabularyRecord, error) {
	records := []models.VocabularyRecord{}
	if len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	if records == nil {
		records = []models.VocabularyRecord{}
	}
	return records, nil
}

// mutate runs one read-transform-write cycle. fn returns the new collection
// and whether it must be written at all.
func (s *Store) mutate(ctx context.Context, fn func([]models.VocabularyRecord) ([]models.VocabularyRecord, bool, error)) error {
	swapper, canSwap := s.kv.(storage.Swapper)
	useSwap := s.optimistic && canSwap

	attempts := 1
	if useSwap {
		attempts += s.maxRetries
	}

	for attempt := 0; attempt < attempts; attempt++ {
		snap, err := s.load(ctx)
		if err != nil {
			return err
		}

		next, write, err := fn(snap.records)
		if err != nil || !write {
			return err
		}

		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode vocabulary: %w", err)
		}

		if !useSwap {
			if err := s.kv.Set(ctx, s.key, raw); err != nil {
				return fmt.Errorf("failed to write vocabulary: %w", err)
			}
			return nil
		}

		var old []byte
		if snap.exists {
			old = snap.raw
		}
		swapped, err := swapper.CompareAndSwap(ctx, s.key, old, raw)
		if err != nil {
			return fmt.Errorf("failed to write vocabulary: %w", err)
		}
		if swapped {
			return nil
		}
		s.log.Debug("vocabulary changed during write, retrying", "attempt", attempt+1)
	}
	return ErrConcurrentModification
}

// GetAll returns the whole collection. A collection that was never written is
// empty, not an error.
func (s *Store) GetAll(ctx context.Context) ([]models.VocabularyRecord, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.records, nil
}

// FindByText returns the record whose text matches exactly
func (s *Store) FindByText(ctx context.Context, text string) (*models.VocabularyRecord, bool, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, false, err
	}
	if i := indexByText(records, text); i >= 0 {
		r := records[i]
		return &r, true, nil
	}
	return nil, false, nil
}

// Add appends a new record built from c with a fresh id and the default
// review state. Nothing is written when c is rejected.
func (s *Store) Add(ctx context.Context, c models.Candidate) (*models.VocabularyRecord, error) {
	text := strings.TrimSpace(c.Text)
	if err := validateFields(text, c.Translation); err != nil {
		s.log.Debug("candidate rejected", "text", c.Text, "error", err)
		return nil, err
	}

	var added models.VocabularyRecord
	err := s.mutate(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool, error) {
		if indexByText(records, text) >= 0 {
			return nil, false, ErrDuplicateText
		}

		now := s.now().UTC()
		added = models.VocabularyRecord{
			ID:            s.newID(),
			Text:          text,
			Translation:   c.Translation,
			FrequencyTier: c.FrequencyTier,
			Phonetic:      c.Phonetic,
			Context:       c.Context,
			CreatedAt:     now,
			UpdatedAt:     now,
			ReviewState:   models.NewReviewState(now),
		}
		added = added.Clone()
		return append(records, added), true, nil
	})
	if err != nil {
		s.log.Debug("add failed", "text", text, "error", err)
		return nil, err
	}

	s.log.Info("word added", "id", added.ID, "text", added.Text)
	return &added, nil
}

// Remove deletes the record with id and returns the resulting collection.
// An unknown id leaves the collection untouched and writes nothing.
func (s *Store) Remove(ctx context.Context, id string) ([]models.VocabularyRecord, error) {
	var (
		result  []models.VocabularyRecord
		removed bool
	)
	err := s.mutate(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool, error) {
		i := indexByID(records, id)
		if i < 0 {
			result, removed = records, false
			return nil, false, nil
		}
		next := make([]models.VocabularyRecord, 0, len(records)-1)
		next = append(next, records[:i]...)
		next = append(next, records[i+1:]...)
		result, removed = next, true
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}
	if removed {
		s.log.Info("word removed", "id", id)
	}
	return result, nil
}

// Update merges patch into the record with id and bumps its updatedAt.
// The patched record must satisfy the same rules as Add. An unknown id is
// ignored.
func (s *Store) Update(ctx context.Context, id string, patch models.RecordPatch) error {
	err := s.mutate(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool, error) {
		i := indexByID(records, id)
		if i < 0 {
			return nil, false, nil
		}

		updated := applyPatch(records[i], patch)
		if err := validateFields(updated.Text, updated.Translation); err != nil {
			return nil, false, err
		}
		if j := indexByText(records, updated.Text); j >= 0 && j != i {
			return nil, false, ErrDuplicateText
		}
		updated.UpdatedAt = s.now().UTC()

		next := append([]models.VocabularyRecord(nil), records...)
		next[i] = updated
		return next, true, nil
	})
	if err != nil {
		s.log.Debug("update rejected", "id", id, "error", err)
		return err
	}
	return nil
}

// Grade applies an SM-2 grade to the record with id and persists the new
// review state
func (s *Store) Grade(ctx context.Context, id string, quality spaced_repetition.QualityResponse) (models.VocabularyRecord, error) {
	var graded models.VocabularyRecord
	err := s.mutate(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool, error) {
		i := indexByID(records, id)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		now := s.now()
		state, err := spaced_repetition.Practice(records[i].ReviewState, quality, now)
		if err != nil {
			return nil, false, err
		}

		next := append([]models.VocabularyRecord(nil), records...)
		next[i].ReviewState = state
		next[i].UpdatedAt = now.UTC()
		graded = next[i].Clone()
		return next, true, nil
	})
	if err != nil {
		return models.VocabularyRecord{}, err
	}

	s.log.Info("word graded",
		"id", id,
		"quality", int(quality),
		"interval", graded.ReviewState.Interval,
		"due", graded.ReviewState.DueDate,
	)
	return graded, nil
}

// GetDueToday returns the records due today or earlier
func (s *Store) GetDueToday(ctx context.Context) ([]models.VocabularyRecord, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return DueToday(records, s.now()), nil
}

// AddBatch appends the candidates whose text is not in the collection yet,
// in a single write. Nothing is written when no candidate is new.
func (s *Store) AddBatch(ctx context.Context, candidates []models.VocabularyRecord) (MergeResult, error) {
	if len(candidates) == 0 {
		return MergeResult{}, nil
	}

	var result MergeResult
	err := s.mutate(ctx, func(records []models.VocabularyRecord) ([]models.VocabularyRecord, bool, error) {
		var fresh []models.VocabularyRecord
		fresh, result = Merge(records, candidates)
		if result.Added == 0 {
			return nil, false, nil
		}
		return append(records, fresh...), true, nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	s.log.Info("batch merged", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

// Stats summarizes the collection
func (s *Store) Stats(ctx context.Context) (models.VocabularyStats, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return models.VocabularyStats{}, err
	}

	now := s.now()
	stats := models.VocabularyStats{
		Total:  len(records),
		ByTier: make(map[string]int),
	}
	for _, r := range records {
		if IsDue(r, now) {
			stats.DueToday++
		}
		if spaced_repetition.IsWordMastered(r.ReviewState) {
			stats.Mastered++
		}
		stats.ByTier[r.FrequencyTier.NameEn]++
	}
	return stats, nil
}

// OnChange calls fn with the new collection after every write to it.
// ok is false when the backend does not emit change events.
func (s *Store) OnChange(fn func([]models.VocabularyRecord)) (cancel func(), ok bool) {
	w, ok := s.kv.(storage.Watcher)
	if !ok {
		return func() {}, false
	}
	return w.Watch(s.key, func(ev storage.ChangeEvent) {
		records, err := decode(ev.NewValue)
		if err != nil {
			s.log.Warn("ignoring undecodable change event", "error", err)
			return
		}
		fn(records)
	}), true
}

func validateFields(text, translation string) error {
	switch {
	case strings.TrimSpace(text) == "":
		return ErrEmptyText
	case !models.IsSingleWord(text):
		return ErrMultiWord
	case strings.TrimSpace(translation) == "":
		return ErrEmptyTranslation
	}
	return nil
}

func applyPatch(r models.VocabularyRecord, p models.RecordPatch) models.VocabularyRecord {
	out := r.Clone()
	if p.Text != nil {
		out.Text = strings.TrimSpace(*p.Text)
	}
	if p.Translation != nil {
		out.Translation = *p.Translation
	}
	if p.FrequencyTier != nil {
		out.FrequencyTier = *p.FrequencyTier
	}
	if p.Phonetic != nil {
		ph := *p.Phonetic
		out.Phonetic = &ph
	}
	if p.Context != nil {
		out.Context = *p.Context
	}
	if p.ReviewState != nil {
		out.ReviewState = *p.ReviewState
	}
	return out.Clone()
}

func indexByID(records []models.VocabularyRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByText(records []models.VocabularyRecord, text string) int {
	for i := range records {
		if records[i].Text == text {
			return i
		}
	}
	return -1
}
