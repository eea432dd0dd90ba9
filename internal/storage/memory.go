package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. Every instance is independent.
type MemoryStore struct {
	*Broker

	mu   sync.Mutex
	data map[string][]byte
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Swapper = (*MemoryStore)(nil)
	_ Watcher = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Broker: NewBroker(),
		data:   make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	old := m.data[key]
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()

	m.Publish(ChangeEvent{Key: key, OldValue: old, NewValue: append([]byte(nil), value...)})
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	old, ok := m.data[key]
	delete(m.data, key)
	m.mu.Unlock()

	if ok {
		m.Publish(ChangeEvent{Key: key, OldValue: old})
	}
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	old := m.data
	m.data = make(map[string][]byte)
	m.mu.Unlock()

	for k, v := range old {
		m.Publish(ChangeEvent{Key: k, OldValue: v})
	}
	return nil
}

func (m *MemoryStore) CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	current, exists := m.data[key]
	if !sameValue(current, exists, old) {
		m.mu.Unlock()
		return false, nil
	}
	m.data[key] = append([]byte(nil), next...)
	m.mu.Unlock()

	m.Publish(ChangeEvent{Key: key, OldValue: current, NewValue: append([]byte(nil), next...)})
	return true, nil
}
