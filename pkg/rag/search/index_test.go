package search

import (
	"math/rand"
	"testing"

	"ai-flashcard-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity_SymmetryAndBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		dim := 1 + rng.Intn(64)
		a := make([]float32, dim)
		b := make([]float32, dim)
		for j := 0; j < dim; j++ {
			a[j] = rng.Float32()*2 - 1
			b[j] = rng.Float32()*2 - 1
		}

		ab := CosineSimilarity(a, b)
		ba := CosineSimilarity(b, a)
		assert.Equal(t, ab, ba)
		assert.GreaterOrEqual(t, ab, -1.0)
		assert.LessOrEqual(t, ab, 1.0)

		assert.Equal(t, 0.0, CosineSimilarity(a, make([]float32, dim)))
		assert.Equal(t, 0.0, CosineSimilarity(make([]float32, dim), b))
	}
}

func TestCosineSimilarity_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"both empty", nil, nil, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func chunk(id string, embedding []float32, chapter, contentType string, page int) entity.Chunk {
	return entity.Chunk{
		Id:        id,
		Embedding: embedding,
		Metadata: entity.ChunkMetadata{
			ChapterTitle: chapter,
			ContentType:  contentType,
			PageNumber:   page,
		},
	}
}

func TestSearch(t *testing.T) {
	query := []float32{1, 0}
	chunks := []entity.Chunk{
		chunk("far", []float32{0, 1}, "Chapter 1", entity.ContentTypeConcept, 1),
		chunk("close", []float32{0.9, 0.1}, "Chapter 1", entity.ContentTypeDefinition, 2),
		chunk("exact", []float32{1, 0}, "Chapter 2", entity.ContentTypeConcept, 3),
		chunk("unembedded", nil, "Chapter 2", entity.ContentTypeConcept, 4),
	}

	t.Run("sorted descending and truncated", func(t *testing.T) {
		results := Search(query, chunks, SearchOptions{TopK: 2})
		require.Len(t, results, 2)
		assert.Equal(t, "exact", results[0].Chunk.Id)
		assert.Equal(t, "close", results[1].Chunk.Id)
	})

	t.Run("threshold excludes even below topK", func(t *testing.T) {
		results := Search(query, chunks, DefaultOptions())
		require.Len(t, results, 2)
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Similarity, DefaultThreshold)
		}
	})

	t.Run("nothing above threshold is empty", func(t *testing.T) {
		results := Search([]float32{-1, 0}, chunks, DefaultOptions())
		assert.Empty(t, results)
	})

	t.Run("chapter filter", func(t *testing.T) {
		results := Search(query, chunks, SearchOptions{Filters: &ChunkFilter{Chapter: "Chapter 2"}})
		require.Len(t, results, 2)
		assert.Equal(t, "exact", results[0].Chunk.Id)
	})

	t.Run("content type filter", func(t *testing.T) {
		results := Search(query, chunks, SearchOptions{Filters: &ChunkFilter{ContentType: entity.ContentTypeDefinition}})
		require.Len(t, results, 1)
		assert.Equal(t, "close", results[0].Chunk.Id)
	})

	t.Run("inclusive page range", func(t *testing.T) {
		results := Search(query, chunks, SearchOptions{Filters: &ChunkFilter{PageFrom: 2, PageTo: 3}})
		require.Len(t, results, 2)
	})

	t.Run("empty chunk set", func(t *testing.T) {
		assert.Empty(t, Search(query, nil, DefaultOptions()))
	})
}
