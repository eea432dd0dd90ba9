package storage

import (
	"bytes"
	"context"
)

// Keys used by the application
const (
	KeyVocabulary       = "vocabulary"
	KeyNotificationTime = "notificationTime"
)

// Store is a key-value persistence backend. Reading a missing key is not an
// error: Get returns ok=false.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Swapper is implemented by stores that can replace a value atomically.
// A nil old value means the key must be absent.
type Swapper interface {
	CompareAndSwap(ctx context.Context, key string, old, next []byte) (swapped bool, err error)
}

// Watcher is implemented by stores that emit change events
type Watcher interface {
	Watch(key string, fn func(ChangeEvent)) (cancel func())
}

// ChangeEvent describes a write to a key. A nil value means absent.
type ChangeEvent struct {
	Key      string `json:"key"`
	OldValue []byte `json:"old_value,omitempty"`
	NewValue []byte `json:"new_value,omitempty"`
}

func sameValue(current []byte, exists bool, old []byte) bool {
	if old == nil {
		return !exists
	}
	return exists && bytes.Equal(current, old)
}
