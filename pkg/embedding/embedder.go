package embedding

import (
	"context"
	"fmt"
	"math"
)

// DefaultDimension is the single vector width used across chunk storage,
// retrieval and the pseudo-embedders.
const DefaultDimension = 384

// TextEmbedder maps text to a fixed-length vector.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// ProviderEmbedder adapts a remote EmbeddingProvider to TextEmbedder.
type ProviderEmbedder struct {
	provider  EmbeddingProvider
	taskType  string
	dimension int
}

func NewProviderEmbedder(provider EmbeddingProvider, taskType string, dimension int) *ProviderEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &ProviderEmbedder{
		provider:  provider,
		taskType:  taskType,
		dimension: dimension,
	}
}

func (e *ProviderEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.provider.Generate(ctx, text, e.taskType)
	if err != nil {
		return nil, err
	}
	values := res.Embedding.Values
	if len(values) != e.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(values), e.dimension)
	}
	return values, nil
}

func (e *ProviderEmbedder) Dimension() int {
	return e.dimension
}

// stringHash is the 32-bit rolling hash h = h*31 + c, returned as |h|.
func stringHash(s string) int64 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return abs
}

// normalizeVector scales vec to unit length. A zero vector is returned as is.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
