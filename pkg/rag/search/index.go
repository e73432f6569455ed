package search

import (
	"math"
	"sort"

	"ai-flashcard-be/internal/entity"
)

const (
	DefaultThreshold = 0.6
	DefaultTopK      = 10
)

// ChunkFilter narrows candidates before scoring. Zero fields match all.
type ChunkFilter struct {
	Chapter     string
	ContentType string
	PageFrom    int
	PageTo      int
}

type SearchOptions struct {
	TopK int
	// Threshold drops results scoring below it. Nil disables the cut.
	Threshold *float64
	Filters   *ChunkFilter
}

// DefaultOptions returns topK 10 with the 0.6 similarity threshold.
func DefaultOptions() SearchOptions {
	threshold := DefaultThreshold
	return SearchOptions{
		TopK:      DefaultTopK,
		Threshold: &threshold,
	}
}

type ScoredChunk struct {
	Chunk      entity.Chunk
	Similarity float64
}

// Search scans every chunk linearly and returns the best matches sorted by
// descending similarity. Chunks without an embedding score 0. An empty
// result is a valid outcome.
func Search(query []float32, chunks []entity.Chunk, opts SearchOptions) []ScoredChunk {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	results := make([]ScoredChunk, 0, len(chunks))
	for _, ch := range chunks {
		if !opts.Filters.matches(ch) {
			continue
		}
		score := CosineSimilarity(query, ch.Embedding)
		if opts.Threshold != nil && score < *opts.Threshold {
			continue
		}
		results = append(results, ScoredChunk{Chunk: ch, Similarity: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func (f *ChunkFilter) matches(ch entity.Chunk) bool {
	if f == nil {
		return true
	}
	if f.Chapter != "" && ch.Metadata.ChapterTitle != f.Chapter {
		return false
	}
	if f.ContentType != "" && ch.Metadata.ContentType != f.ContentType {
		return false
	}

	page := ch.Metadata.PageNumber
	if page <= 0 {
		page = 1
	}
	if f.PageFrom > 0 && page < f.PageFrom {
		return false
	}
	if f.PageTo > 0 && page > f.PageTo {
		return false
	}
	return true
}

// CosineSimilarity returns 0 for mismatched lengths or a zero-norm input,
// never NaN, and is clamped to [-1, 1].
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}
