package embedding

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/pkg/cache"
)

const cacheKeyPrefixLength = 100

// CachedEmbedder memoizes an inner embedder in the content cache. Inner
// failures degrade to a zero vector so callers never see an error.
type CachedEmbedder struct {
	inner  TextEmbedder
	cache  *cache.ContentCache
	ttl    time.Duration
	logger logger.ILogger
}

func NewCachedEmbedder(inner TextEmbedder, contentCache *cache.ContentCache, ttl time.Duration, log logger.ILogger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		cache:  contentCache,
		ttl:    ttl,
		logger: log,
	}
}

// CacheKey derives the memo key from a text prefix and the text length.
// Texts sharing both collide; that is accepted.
func CacheKey(text string) string {
	prefix := text
	if utf8.RuneCountInString(text) > cacheKeyPrefixLength {
		prefix = string([]rune(text)[:cacheKeyPrefixLength])
	}
	return fmt.Sprintf("embedding_%s_%d", prefix, utf8.RuneCountInString(text))
}

// Cached returns a memoized vector without computing one.
func (e *CachedEmbedder) Cached(text string) ([]float32, bool) {
	value, ok := e.cache.Get(CacheKey(text))
	if !ok {
		return nil, false
	}
	vec, ok := value.([]float32)
	return vec, ok
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.Cached(text); ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("Embedding", "Embedding failed, using zero vector", map[string]interface{}{
			"error":       err.Error(),
			"text_length": len(text),
		})
		return make([]float32, e.inner.Dimension()), nil
	}

	e.cache.Set(CacheKey(text), vec, e.ttl)
	return vec, nil
}

func (e *CachedEmbedder) Dimension() int {
	return e.inner.Dimension()
}
