package service

import (
	"context"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/specification"
	"ai-flashcard-be/internal/repository/unitofwork"
	"ai-flashcard-be/pkg/deckcache"
)

type pdfCacheStore struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewPdfCacheStore is the postgres durable tier of the deck cache.
func NewPdfCacheStore(uowFactory unitofwork.RepositoryFactory) deckcache.Store {
	return &pdfCacheStore{uowFactory: uowFactory}
}

func (s *pdfCacheStore) Find(ctx context.Context, contentHash, userId, filtersKey string) (*entity.PDFCacheEntry, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PdfCacheRepository().FindOne(ctx, specification.ByCacheKey{
		ContentHash: contentHash,
		UserId:      userId,
		FiltersKey:  filtersKey,
	})
}

func (s *pdfCacheStore) Save(ctx context.Context, entry *entity.PDFCacheEntry) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PdfCacheRepository().Upsert(ctx, entry)
}

func (s *pdfCacheStore) Delete(ctx context.Context, id string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PdfCacheRepository().Delete(ctx, id)
}
