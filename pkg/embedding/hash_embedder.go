package embedding

import (
	"context"
	"strings"
)

// HashEmbedder builds a normalized word histogram by hashing each word into
// a slot. It is deterministic and carries no semantic meaning: paraphrases
// with disjoint vocabulary land far apart.
type HashEmbedder struct {
	dimension int
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashEmbedder{dimension: dimension}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		vec[stringHash(word)%int64(e.dimension)]++
	}
	return normalizeVector(vec), nil
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}
