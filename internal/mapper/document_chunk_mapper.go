package mapper

import (
	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	return &entity.Chunk{
		Id:      c.ChunkKey,
		Content: c.Content,
		Metadata: entity.ChunkMetadata{
			DocumentId:         c.DocumentId,
			UserId:             c.UserId,
			ChapterTitle:       c.ChapterTitle,
			PageNumber:         c.PageNumber,
			ChunkIndex:         c.ChunkIndex,
			CreatedAt:          c.ChunkedAt,
			TokenCountEstimate: c.TokenCountEstimate,
			ContentType:        c.ContentType,
		},
		Embedding: c.EmbeddingValue.Slice(),
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.Chunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	return &model.DocumentChunk{
		ChunkKey:           c.Id,
		DocumentId:         c.Metadata.DocumentId,
		UserId:             c.Metadata.UserId,
		Content:            c.Content,
		ChapterTitle:       c.Metadata.ChapterTitle,
		PageNumber:         c.Metadata.PageNumber,
		ChunkIndex:         c.Metadata.ChunkIndex,
		TokenCountEstimate: c.Metadata.TokenCountEstimate,
		ContentType:        c.Metadata.ContentType,
		EmbeddingValue:     pgvector.NewVector(c.Embedding),
		ChunkedAt:          c.Metadata.CreatedAt,
	}
}
