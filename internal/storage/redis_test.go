package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordkeeper/internal/logger"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), logger.Nop(), addr, "wordkeeper:test:"+t.Name())
	require.NoError(t, err)
	s.prefix = "wordkeeper:test:" + t.Name() + ":"
	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	_, ok, err := s.Get(ctx, KeyVocabulary)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyVocabulary, []byte(`[]`)))
	v, ok, err := s.Get(ctx, KeyVocabulary)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, s.Remove(ctx, KeyVocabulary))
	_, ok, err = s.Get(ctx, KeyVocabulary)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := newTestRedisStore(t)

	swapped, err := s.CompareAndSwap(ctx, "k", nil, []byte("a"))
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = s.CompareAndSwap(ctx, "k", []byte("stale"), []byte("b"))
	require.NoError(t, err)
	assert.False(t, swapped)

	swapped, err = s.CompareAndSwap(ctx, "k", []byte("a"), []byte("b"))
	require.NoError(t, err)
	assert.True(t, swapped)
}

func TestRedisStore_ListenForwardsRemoteEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := newTestRedisStore(t)
	writer, err := NewRedisStore(ctx, logger.Nop(), os.Getenv("REDIS_ADDR"), reader.channel)
	require.NoError(t, err)
	writer.prefix = reader.prefix
	defer writer.Close()

	got := make(chan ChangeEvent, 1)
	reader.Watch(KeyVocabulary, func(ev ChangeEvent) { got <- ev })
	require.NoError(t, reader.Listen(ctx))

	require.NoError(t, writer.Set(ctx, KeyVocabulary, []byte(`[1]`)))

	select {
	case ev := <-got:
		assert.Equal(t, `[1]`, string(ev.NewValue))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event received")
	}
}
