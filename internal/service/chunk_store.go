package service

import (
	"context"
	"fmt"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/specification"
	"ai-flashcard-be/internal/repository/unitofwork"
	"ai-flashcard-be/pkg/rag/executor"
)

type documentChunkStore struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewDocumentChunkStore backs the pipeline's chunk persistence with the
// document_chunks table.
func NewDocumentChunkStore(uowFactory unitofwork.RepositoryFactory) executor.ChunkStore {
	return &documentChunkStore{uowFactory: uowFactory}
}

// ReplaceDocumentChunks swaps the stored chunks of one document inside a
// single transaction.
func (s *documentChunkStore) ReplaceDocumentChunks(ctx context.Context, documentId, userId string, chunks []entity.Chunk) (err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin chunk transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	repo := uow.DocumentChunkRepository()
	if err = repo.DeleteByDocument(ctx, documentId, userId); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	rows := make([]*entity.Chunk, 0, len(chunks))
	for i := range chunks {
		c := chunks[i]
		c.Metadata.DocumentId = documentId
		c.Metadata.UserId = userId
		rows = append(rows, &c)
	}
	if err = repo.CreateBulk(ctx, rows); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}

	return uow.Commit()
}

func (s *documentChunkStore) FindDocumentChunks(ctx context.Context, documentId, userId string) ([]entity.Chunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.DocumentChunkRepository().FindAll(ctx,
		specification.ByDocument{DocumentId: documentId, UserId: userId},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}

	chunks := make([]entity.Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, *row)
	}
	return chunks, nil
}
