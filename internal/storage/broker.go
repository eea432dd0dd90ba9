package storage

import "sync"

// Broker fans change events out to in-process subscribers
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(ChangeEvent)
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]func(ChangeEvent))}
}

// Watch registers fn for events on key. An empty key subscribes to all keys.
func (b *Broker) Watch(key string, fn func(ChangeEvent)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]func(ChangeEvent))
	}
	b.subs[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[key], id)
			if len(b.subs[key]) == 0 {
				delete(b.subs, key)
			}
		})
	}
}

// Publish delivers ev synchronously. Subscribers must not block.
func (b *Broker) Publish(ev ChangeEvent) {
	b.mu.RLock()
	var fns []func(ChangeEvent)
	for _, fn := range b.subs[ev.Key] {
		fns = append(fns, fn)
	}
	if ev.Key != "" {
		for _, fn := range b.subs[""] {
			fns = append(fns, fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
