package deckcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
)

// Store is the durable tier. Find returns nil, nil on a miss.
type Store interface {
	Find(ctx context.Context, contentHash, userId, filtersKey string) (*entity.PDFCacheEntry, error)
	Save(ctx context.Context, entry *entity.PDFCacheEntry) error
	Delete(ctx context.Context, id string) error
}

// Mirror persists the whole memory tier as one JSON document.
type Mirror interface {
	Load(ctx context.Context) (map[string]entity.PDFCacheEntry, error)
	Save(ctx context.Context, entries map[string]entity.PDFCacheEntry) error
	Remove(ctx context.Context) error
}

// BestEffortStore wraps a durable store so that its failures are logged and
// degrade to a miss or a no-op.
type BestEffortStore struct {
	inner  Store
	logger logger.ILogger
}

func NewBestEffortStore(inner Store, log logger.ILogger) *BestEffortStore {
	return &BestEffortStore{inner: inner, logger: log}
}

func (s *BestEffortStore) Find(ctx context.Context, contentHash, userId, filtersKey string) (*entity.PDFCacheEntry, error) {
	entry, err := s.inner.Find(ctx, contentHash, userId, filtersKey)
	if err != nil {
		s.logger.Warn("DeckCache", "Durable cache lookup failed, using memory cache only", map[string]interface{}{
			"error":        err.Error(),
			"content_hash": contentHash,
		})
		return nil, nil
	}
	return entry, nil
}

func (s *BestEffortStore) Save(ctx context.Context, entry *entity.PDFCacheEntry) error {
	if err := s.inner.Save(ctx, entry); err != nil {
		s.logger.Warn("DeckCache", "Failed to store in durable cache, using memory cache only", map[string]interface{}{
			"error":    err.Error(),
			"entry_id": entry.Id,
		})
	}
	return nil
}

func (s *BestEffortStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		s.logger.Warn("DeckCache", "Failed to remove expired cache entry", map[string]interface{}{
			"error":    err.Error(),
			"entry_id": id,
		})
	}
	return nil
}

// KeyValueStore is a string key to string value store, such as the local
// sqlite file.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// MirrorKey is the key holding the serialized memory tier.
const MirrorKey = "pdfCache"

// KeyValueMirror serializes the memory map under MirrorKey.
type KeyValueMirror struct {
	kv KeyValueStore
}

func NewKeyValueMirror(kv KeyValueStore) *KeyValueMirror {
	return &KeyValueMirror{kv: kv}
}

func (m *KeyValueMirror) Load(ctx context.Context) (map[string]entity.PDFCacheEntry, error) {
	raw, ok, err := m.kv.GetItem(ctx, MirrorKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return map[string]entity.PDFCacheEntry{}, nil
	}

	entries := make(map[string]entity.PDFCacheEntry)
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("corrupt cache mirror: %w", err)
	}
	return entries, nil
}

func (m *KeyValueMirror) Save(ctx context.Context, entries map[string]entity.PDFCacheEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return m.kv.SetItem(ctx, MirrorKey, string(raw))
}

func (m *KeyValueMirror) Remove(ctx context.Context) error {
	return m.kv.RemoveItem(ctx, MirrorKey)
}

// MemoryStore is a durable-tier stand-in used when no backend is configured
// and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entity.PDFCacheEntry
	err     error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entity.PDFCacheEntry)}
}

// FailWith makes every later call return err.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryStore) Find(_ context.Context, contentHash, userId, filtersKey string) (*entity.PDFCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	entry, ok := s.entries[EntryKey(userId, contentHash, filtersKey)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Save(_ context.Context, entry *entity.PDFCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if entry == nil {
		return errors.New("nil cache entry")
	}
	s.entries[entry.Id] = *entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
