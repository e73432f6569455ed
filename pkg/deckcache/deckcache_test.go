package deckcache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type memoryKV struct {
	items map[string]string
	err   error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{items: make(map[string]string)}
}

func (m *memoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryKV) SetItem(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = value
	return nil
}

func (m *memoryKV) RemoveItem(_ context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func sampleDecks() []entity.ChapterDeck {
	return []entity.ChapterDeck{{
		ChapterTitle: "Geography",
		Flashcards: []entity.Flashcard{
			{Id: "1", Question: "What is the capital of France?", Answer: "Paris"},
		},
	}}
}

func TestDeckCache_KeyIsolation(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, NewMemoryStore(), nil, logger.NewNopLogger())

	f1 := entity.DefaultFilters()
	f2 := entity.DefaultFilters()
	f2.Depth = entity.DepthInDepth

	hash := ContentHash("Paris is the capital of France.", "geo.pdf", nil)
	c.Store(ctx, StoreInput{ContentHash: hash, UserId: "u1", FileName: "geo.pdf", ChapterDecks: sampleDecks(), Filters: &f1})

	_, ok := c.Check(ctx, hash, "u1", &f2)
	assert.False(t, ok, "different filters must miss")

	_, ok = c.Check(ctx, hash, "u2", &f1)
	assert.False(t, ok, "different user must miss")

	entry, ok := c.Check(ctx, hash, "u1", &f1)
	require.True(t, ok)
	assert.Equal(t, sampleDecks(), entry.ChapterDecks)
	assert.Equal(t, 1, entry.Metadata.ChunkCount)
	assert.Equal(t, EntryKey("u1", hash, FiltersKey(&f1)), entry.Id)
}

func TestDeckCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	durable := NewMemoryStore()

	c := New(ctx, durable, nil, logger.NewNopLogger(), WithClock(clock.Now))
	c.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1", ChapterDecks: sampleDecks()})
	require.Equal(t, 1, durable.Len())

	clock.now = clock.now.Add(23 * time.Hour)
	_, ok := c.Check(ctx, "abc", "u1", nil)
	assert.True(t, ok)

	clock.now = clock.now.Add(2 * time.Hour)
	_, ok = c.Check(ctx, "abc", "u1", nil)
	assert.False(t, ok)
	assert.Equal(t, 0, durable.Len(), "expired durable entry is removed")
}

func TestDeckCache_ExpiredDurableEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	durable := NewMemoryStore()
	require.NoError(t, durable.Save(ctx, &entity.PDFCacheEntry{
		Id:           EntryKey("u1", "abc", DefaultFiltersKey),
		ContentHash:  "abc",
		UserId:       "u1",
		FiltersKey:   DefaultFiltersKey,
		ChapterDecks: sampleDecks(),
		ProcessedAt:  now.Add(-25 * time.Hour),
	}))

	c := New(ctx, durable, nil, logger.NewNopLogger(), WithClock(func() time.Time { return now }))

	_, ok := c.Check(ctx, "abc", "u1", nil)
	assert.False(t, ok)
}

func TestDeckCache_DurableHitPopulatesMemory(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	require.NoError(t, durable.Save(ctx, &entity.PDFCacheEntry{
		Id:          EntryKey("u1", "abc", DefaultFiltersKey),
		ContentHash: "abc",
		UserId:      "u1",
		FiltersKey:  DefaultFiltersKey,
		ProcessedAt: time.Now(),
	}))

	c := New(ctx, durable, nil, logger.NewNopLogger())
	_, ok := c.Check(ctx, "abc", "u1", nil)
	require.True(t, ok)
	assert.Equal(t, 1, c.Stats().Size)

	durable.FailWith(errors.New("connection refused"))
	_, ok = c.Check(ctx, "abc", "u1", nil)
	assert.True(t, ok, "served from memory")
}

func TestDeckCache_DurableFailureDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	durable.FailWith(errors.New("connection refused"))

	c := New(ctx, durable, nil, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		c.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1", ChapterDecks: sampleDecks()})
	})
	_, ok := c.Check(ctx, "abc", "u1", nil)
	assert.True(t, ok)

	_, ok = c.Check(ctx, "other", "u1", nil)
	assert.False(t, ok)
}

func TestDeckCache_Mirror(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	mirror := NewKeyValueMirror(kv)

	first := New(ctx, nil, mirror, logger.NewNopLogger())
	first.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1", ChapterDecks: sampleDecks()})
	require.Contains(t, kv.items, MirrorKey)

	second := New(ctx, nil, mirror, logger.NewNopLogger())
	entry, ok := second.Check(ctx, "abc", "u1", nil)
	require.True(t, ok, "reloaded from mirror")
	assert.Equal(t, sampleDecks(), entry.ChapterDecks)

	t.Run("expired mirror entries are skipped", func(t *testing.T) {
		later := func() time.Time { return time.Now().Add(48 * time.Hour) }
		c := New(ctx, nil, mirror, logger.NewNopLogger(), WithClock(later))
		assert.Equal(t, 0, c.Stats().Size)
	})

	t.Run("corrupt mirror is treated as empty", func(t *testing.T) {
		kv.items[MirrorKey] = "{not json"
		c := New(ctx, nil, mirror, logger.NewNopLogger())
		assert.Equal(t, 0, c.Stats().Size)
	})

	t.Run("unavailable mirror never fails", func(t *testing.T) {
		broken := newMemoryKV()
		broken.err = errors.New("disk full")
		c := New(ctx, nil, NewKeyValueMirror(broken), logger.NewNopLogger())
		c.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1"})
		_, ok := c.Check(ctx, "abc", "u1", nil)
		assert.True(t, ok)
	})

	t.Run("clear removes memory and mirror", func(t *testing.T) {
		kv := newMemoryKV()
		c := New(ctx, nil, NewKeyValueMirror(kv), logger.NewNopLogger())
		c.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1"})

		c.Clear(ctx)
		assert.Equal(t, Stats{Size: 0, Entries: []string{}}, c.Stats())
		assert.NotContains(t, kv.items, MirrorKey)
	})
}

type countingRecorder struct {
	hits, misses map[string]int
}

func (r *countingRecorder) CacheHit(cache string)  { r.hits[cache]++ }
func (r *countingRecorder) CacheMiss(cache string) { r.misses[cache]++ }

func TestDeckCache_Recorder(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{hits: map[string]int{}, misses: map[string]int{}}
	c := New(ctx, NewMemoryStore(), nil, logger.NewNopLogger(), WithRecorder(rec))

	c.Check(ctx, "abc", "u1", nil)
	c.Store(ctx, StoreInput{ContentHash: "abc", UserId: "u1"})
	c.Check(ctx, "abc", "u1", nil)

	assert.Equal(t, 1, rec.hits["deck_memory"])
	assert.Equal(t, 1, rec.misses["deck_memory"])
	assert.Equal(t, 1, rec.misses["deck_durable"])
}

func TestContentHash(t *testing.T) {
	text := "Paris is the capital of France. The Eiffel Tower is in Paris."

	assert.Equal(t, ContentHash(text, "geo.pdf", nil), ContentHash(text, "geo.pdf", nil))
	assert.NotEqual(t, ContentHash(text, "geo.pdf", nil), ContentHash(text, "other.pdf", nil))

	defaults := entity.DefaultFilters()
	assert.NotEqual(t, ContentHash(text, "geo.pdf", nil), ContentHash(text, "geo.pdf", &defaults))

	// (0<<5)-0+97 = 97 = "2p" in base 36
	assert.Equal(t, "2p", hash36("a"))
}

func TestFiltersKey(t *testing.T) {
	assert.Equal(t, DefaultFiltersKey, FiltersKey(nil))

	f := entity.DefaultFilters()
	f.PageRange = &entity.PageRange{From: 2, To: 5}
	key := FiltersKey(&f)

	assert.Equal(t,
		`{"content_type":["full-detail"],"depth":"moderate","limit_per_chapter":15,"organization":"chapter-wise","page_range":{"from":2,"to":5},"study_goal":"concept-mastery"}`,
		key,
	)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, time.Minute)
	entry := &entity.PDFCacheEntry{
		Id:           EntryKey("test-user", "hash", DefaultFiltersKey),
		ContentHash:  "hash",
		UserId:       "test-user",
		FiltersKey:   DefaultFiltersKey,
		ChapterDecks: sampleDecks(),
		ProcessedAt:  time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Save(ctx, entry))
	defer store.Delete(ctx, entry.Id)

	found, err := store.Find(ctx, "hash", "test-user", DefaultFiltersKey)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.ChapterDecks, found.ChapterDecks)

	missing, err := store.Find(ctx, "nope", "test-user", DefaultFiltersKey)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
