// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package events provides a typed in-process publish/subscribe list.
package events

import "sync"

// Handler receives published values.
type Handler[T any] func(T)

// Broadcaster delivers every published value to all current subscribers
// in subscription order. The zero value is ready to use.
//
// Handlers run synchronously on the publishing goroutine, outside the
// broadcaster's lock, so a handler may subscribe or unsubscribe.
type Broadcaster[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Handler[T]
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is idempotent and takes effect immediately.
func (b *Broadcaster[T]) Subscribe(fn Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.handlers {
		if s.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Publish calls every subscribed handler with v.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.RLock()
	snapshot := make([]subscription[T], len(b.handlers))
	copy(snapshot, b.handlers)
	b.mu.RUnlock()

	for _, s := range snapshot {
		if b.active(s.id) {
			s.fn(v)
		}
	}
}

// active reports whether id is still subscribed; a handler removed by an
// earlier handler in the same Publish must not be called.
func (b *Broadcaster[T]) active(id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.handlers {
		if s.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
