package contract

import (
	"context"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/specification"
)

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocument(ctx context.Context, documentId, userId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
