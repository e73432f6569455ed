package contract

import (
	"context"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/specification"
)

type PdfCacheRepository interface {
	// Upsert replaces any row with the same id.
	Upsert(ctx context.Context, entry *entity.PDFCacheEntry) error
	Delete(ctx context.Context, id string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PDFCacheEntry, error)
}
