package unitofwork

import (
	"context"

	"ai-flashcard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentChunkRepository() contract.DocumentChunkRepository
	PdfCacheRepository() contract.PdfCacheRepository
	UserDeckRepository() contract.UserDeckRepository
}
