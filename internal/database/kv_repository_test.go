package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordkeeper/internal/storage"
)

func newTestRepository(t *testing.T) *KVRepository {
	t.Helper()

	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKVRepository(db)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Connect("mysql", "whatever")
	assert.Error(t, err)
}

func TestConnect_CreatesDataDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "words.db")
	db, err := Connect(DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestKVRepository_SetGetRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepository(t)

	_, ok, err := r.Get(ctx, storage.KeyVocabulary)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, storage.KeyVocabulary, []byte(`[]`)))
	require.NoError(t, r.Set(ctx, storage.KeyVocabulary, []byte(`[{"id":"1"}]`)))

	v, ok, err := r.Get(ctx, storage.KeyVocabulary)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(v))

	require.NoError(t, r.Remove(ctx, storage.KeyVocabulary))
	_, ok, err = r.Get(ctx, storage.KeyVocabulary)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Remove(ctx, "missing"))
}

func TestKVRepository_Events(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepository(t)

	var events []storage.ChangeEvent
	r.Watch("", func(ev storage.ChangeEvent) { events = append(events, ev) })

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "a", []byte("2")))
	require.NoError(t, r.Set(ctx, "b", []byte("3")))
	require.NoError(t, r.Clear(ctx))

	require.Len(t, events, 5)
	assert.Nil(t, events[0].OldValue)
	assert.Equal(t, "1", string(events[1].OldValue))
	assert.Equal(t, "2", string(events[1].NewValue))

	var cleared []string
	for _, ev := range events[3:] {
		assert.Nil(t, ev.NewValue)
		cleared = append(cleared, ev.Key)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, cleared)
}

func TestKVRepository_CompareAndSwap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepository(t)

	tests := []struct {
		name    string
		old     []byte
		next    []byte
		want    bool
		wantVal string
	}{
		{name: "create when absent", old: nil, next: []byte("a"), want: true, wantVal: "a"},
		{name: "create fails when present", old: nil, next: []byte("b"), want: false, wantVal: "a"},
		{name: "stale snapshot", old: []byte("z"), next: []byte("b"), want: false, wantVal: "a"},
		{name: "matching snapshot", old: []byte("a"), next: []byte("b"), want: true, wantVal: "b"},
	}
	for _, tt := range tests {
		swapped, err := r.CompareAndSwap(ctx, "k", tt.old, tt.next)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, swapped, tt.name)

		v, _, err := r.Get(ctx, "k")
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.wantVal, string(v), tt.name)
	}
}
