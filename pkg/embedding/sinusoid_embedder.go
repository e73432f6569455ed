package embedding

import (
	"context"
	"math"
)

// SinusoidEmbedder spreads one hash of the whole text across every
// dimension as sin(h+i)*0.1. Vectors are not normalized.
type SinusoidEmbedder struct {
	dimension int
}

func NewSinusoidEmbedder(dimension int) *SinusoidEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &SinusoidEmbedder{dimension: dimension}
}

func (e *SinusoidEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	h := float64(stringHash(text))
	vec := make([]float32, e.dimension)
	for i := range vec {
		vec[i] = float32(math.Sin(h+float64(i)) * 0.1)
	}
	return vec, nil
}

func (e *SinusoidEmbedder) Dimension() int {
	return e.dimension
}
