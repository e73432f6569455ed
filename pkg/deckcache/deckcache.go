package deckcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
)

const DefaultTTL = 24 * time.Hour

// Recorder receives cache hit and miss signals.
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

type noopRecorder struct{}

func (noopRecorder) CacheHit(string)  {}
func (noopRecorder) CacheMiss(string) {}

type Stats struct {
	Size    int      `json:"size"`
	Entries []string `json:"entries"`
}

type StoreInput struct {
	ContentHash      string
	UserId           string
	FileName         string
	TotalPages       int
	TextLength       int
	ChapterDecks     []entity.ChapterDeck
	Filters          *entity.Filters
	ProcessingTimeMs int64
	RagMetadata      *entity.RagMetadata
}

// DeckCache maps (user, content hash, filters) to generated decks across
// three tiers: an in-process map, a durable store and a local mirror of the
// in-process map. Only the memory tier is authoritative for a request; the
// other two are best-effort.
type DeckCache struct {
	mu     sync.RWMutex
	memory map[string]entity.PDFCacheEntry

	store    Store
	mirror   Mirror
	ttl      time.Duration
	now      func() time.Time
	logger   logger.ILogger
	recorder Recorder
}

type Option func(*DeckCache)

func WithClock(now func() time.Time) Option {
	return func(c *DeckCache) {
		c.now = now
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(c *DeckCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *DeckCache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// New builds the cache and warms the memory tier from the mirror. A nil
// store or mirror disables that tier.
func New(ctx context.Context, store Store, mirror Mirror, log logger.ILogger, opts ...Option) *DeckCache {
	c := &DeckCache{
		memory:   make(map[string]entity.PDFCacheEntry),
		mirror:   mirror,
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   log,
		recorder: noopRecorder{},
	}
	if store != nil {
		c.store = NewBestEffortStore(store, log)
	}
	for _, opt := range opts {
		opt(c)
	}

	c.loadMirror(ctx)
	return c
}

func (c *DeckCache) isValid(entry entity.PDFCacheEntry) bool {
	return c.now().Sub(entry.ProcessedAt) < c.ttl
}

// Check looks up decks for the triple, memory first, then the durable tier.
// A valid durable hit is promoted into memory.
func (c *DeckCache) Check(ctx context.Context, contentHash, userId string, filters *entity.Filters) (*entity.PDFCacheEntry, bool) {
	filtersKey := FiltersKey(filters)
	key := EntryKey(userId, contentHash, filtersKey)

	c.mu.RLock()
	entry, ok := c.memory[key]
	c.mu.RUnlock()

	if ok {
		if c.isValid(entry) {
			c.recorder.CacheHit("deck_memory")
			return &entry, true
		}
		c.mu.Lock()
		delete(c.memory, key)
		c.mu.Unlock()
	}
	c.recorder.CacheMiss("deck_memory")

	if c.store == nil {
		return nil, false
	}

	stored, _ := c.store.Find(ctx, contentHash, userId, filtersKey)
	if stored == nil {
		c.recorder.CacheMiss("deck_durable")
		return nil, false
	}
	if !c.isValid(*stored) {
		c.logger.Info("DeckCache", "Removing expired cache entry", map[string]interface{}{
			"entry_id": stored.Id,
		})
		_ = c.store.Delete(ctx, stored.Id)
		c.recorder.CacheMiss("deck_durable")
		return nil, false
	}

	c.mu.Lock()
	c.memory[key] = *stored
	c.mu.Unlock()

	c.recorder.CacheHit("deck_durable")
	return stored, true
}

// Store writes the entry to memory, then best-effort to the durable tier and
// the mirror. It never fails.
func (c *DeckCache) Store(ctx context.Context, in StoreInput) *entity.PDFCacheEntry {
	filtersKey := FiltersKey(in.Filters)
	key := EntryKey(in.UserId, in.ContentHash, filtersKey)

	entry := entity.PDFCacheEntry{
		Id:           key,
		ContentHash:  in.ContentHash,
		FileName:     in.FileName,
		TotalPages:   in.TotalPages,
		TextLength:   in.TextLength,
		ChapterDecks: in.ChapterDecks,
		ProcessedAt:  c.now(),
		UserId:       in.UserId,
		FiltersKey:   filtersKey,
		Metadata: entity.PDFCacheMetadata{
			Filters:          in.Filters,
			ProcessingTimeMs: in.ProcessingTimeMs,
			ChunkCount:       entity.CountCards(in.ChapterDecks),
			RagMetadata:      in.RagMetadata,
		},
	}

	c.mu.Lock()
	c.memory[key] = entry
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Save(ctx, &entry)
	}
	c.saveMirror(ctx)

	return &entry
}

func (c *DeckCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.memory))
	for k := range c.memory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Size: len(keys), Entries: keys}
}

// Clear empties the memory tier and removes the mirror. Durable entries
// age out on their own.
func (c *DeckCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.memory = make(map[string]entity.PDFCacheEntry)
	c.mu.Unlock()

	if c.mirror == nil {
		return
	}
	if err := c.mirror.Remove(ctx); err != nil {
		c.logger.Warn("DeckCache", "Failed to remove cache mirror", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *DeckCache) loadMirror(ctx context.Context) {
	if c.mirror == nil {
		return
	}

	entries, err := c.mirror.Load(ctx)
	if err != nil {
		c.logger.Warn("DeckCache", "Error loading cache from mirror, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range entries {
		if c.isValid(entry) {
			c.memory[key] = entry
		}
	}
}

func (c *DeckCache) saveMirror(ctx context.Context) {
	if c.mirror == nil {
		return
	}

	c.mu.RLock()
	snapshot := make(map[string]entity.PDFCacheEntry, len(c.memory))
	for k, v := range c.memory {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	if err := c.mirror.Save(ctx, snapshot); err != nil {
		c.logger.Warn("DeckCache", "Error saving cache to mirror", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
