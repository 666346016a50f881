package store

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps entries in process memory. Contents are lost on restart.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]map[string]Entry
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]map[string]Entry)}
}

func (b *MemoryBackend) GetEntry(ctx context.Context, namespace, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[namespace][key]
	return entry, ok, nil
}

func (b *MemoryBackend) PutEntry(ctx context.Context, namespace, key string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	ns, ok := b.entries[namespace]
	if !ok {
		ns = make(map[string]Entry)
		b.entries[namespace] = ns
	}
	ns[key] = entry
	return nil
}

func (b *MemoryBackend) Purge(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed int64
	for namespace, ns := range b.entries {
		for key, entry := range ns {
			if entry.Expired(now) {
				delete(ns, key)
				removed++
			}
		}
		if len(ns) == 0 {
			delete(b.entries, namespace)
		}
	}
	return removed, nil
}

func (b *MemoryBackend) Close() error {
	return nil
}

// MemoryStore is a single-namespace Store held in memory. It records every
// write so callers can inspect persistence traffic.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	Writes []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.Writes = append(s.Writes, key)
	return nil
}
