// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryKeyValueStore is a process-local [KeyValueStore]; its contents live
// exactly as long as the process, which makes it the default ephemeral tier.
type memoryKeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryKeyValueStore returns an empty in-memory [KeyValueStore].
func NewMemoryKeyValueStore() KeyValueStore {
	return newMemoryKeyValueStore(time.Now)
}

func newMemoryKeyValueStore(now func() time.Time) *memoryKeyValueStore {
	return &memoryKeyValueStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *memoryKeyValueStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || (!e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)) {
		return "", ErrKeyNotFound
	}
	return e.value, nil
}

func (s *memoryKeyValueStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *memoryKeyValueStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}
