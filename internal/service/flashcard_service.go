package service

import (
	"context"
	"fmt"
	"time"

	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/internal/repository/specification"
	"ai-flashcard-be/internal/repository/unitofwork"
	"ai-flashcard-be/pkg/cache"
	"ai-flashcard-be/pkg/deckcache"
	"ai-flashcard-be/pkg/events"
	"ai-flashcard-be/pkg/pdf"
	"ai-flashcard-be/pkg/rag/executor"

	"github.com/google/uuid"
)

type IFlashcardService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateFlashcardsRequest) (*dto.GenerateFlashcardsResponse, error)
	GeneratePDF(ctx context.Context, userId uuid.UUID, req *dto.GeneratePDFRequest) (*dto.GenerateFlashcardsResponse, error)
	CacheStats(ctx context.Context) (*dto.CacheStatsResponse, error)
	ClearCache(ctx context.Context) error
	ListDocumentChunks(ctx context.Context, userId uuid.UUID, documentId string) ([]*dto.DocumentChunkResponse, error)
	ClearDocumentChunks(ctx context.Context, userId uuid.UUID, documentId string) (*dto.ClearDocumentChunksResponse, error)
}

// FlashcardPipeline is the generation orchestrator.
type FlashcardPipeline interface {
	Generate(ctx context.Context, req executor.GenerationRequest) (*executor.GenerationResult, error)
}

type DeckRecorder interface {
	DeckGenerated(fromCache bool)
}

type flashcardService struct {
	pipeline     FlashcardPipeline
	deckCache    *deckcache.DeckCache
	contentCache *cache.ContentCache
	uowFactory   unitofwork.RepositoryFactory
	publisher    events.Publisher
	progress     IProgressService
	recorder     DeckRecorder
	logger       logger.ILogger
	timeout      time.Duration
}

// NewFlashcardService wires generation and cache administration. publisher,
// progress and recorder may be nil.
func NewFlashcardService(
	pipeline FlashcardPipeline,
	deckCache *deckcache.DeckCache,
	contentCache *cache.ContentCache,
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	progress IProgressService,
	recorder DeckRecorder,
	log logger.ILogger,
	timeout time.Duration,
) IFlashcardService {
	return &flashcardService{
		pipeline:     pipeline,
		deckCache:    deckCache,
		contentCache: contentCache,
		uowFactory:   uowFactory,
		publisher:    publisher,
		progress:     progress,
		recorder:     recorder,
		logger:       log,
		timeout:      timeout,
	}
}

func (s *flashcardService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateFlashcardsRequest) (*dto.GenerateFlashcardsResponse, error) {
	return s.run(ctx, userId, req.ClientId, executor.GenerationRequest{
		Text:       req.Text,
		FileName:   req.FileName,
		Filters:    req.Filters,
		TotalPages: req.TotalPages,
	})
}

func (s *flashcardService) GeneratePDF(ctx context.Context, userId uuid.UUID, req *dto.GeneratePDFRequest) (*dto.GenerateFlashcardsResponse, error) {
	doc, err := pdf.ExtractPages(req.Data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("FlashcardService", "Extracted PDF text", map[string]interface{}{
		"file_name": req.FileName,
		"pages":     doc.TotalPages(),
	})

	return s.run(ctx, userId, req.ClientId, executor.GenerationRequest{
		Text:       doc.Text(),
		FileName:   req.FileName,
		Filters:    req.Filters,
		TotalPages: doc.TotalPages(),
		Pages:      doc.Pages,
	})
}

func (s *flashcardService) run(ctx context.Context, userId uuid.UUID, clientId string, genReq executor.GenerationRequest) (*dto.GenerateFlashcardsResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	genReq.UserId = userId.String()
	if s.progress != nil {
		genReq.OnProgress = s.progress.Reporter(userId, clientId, genReq.FileName)
	}

	result, err := s.pipeline.Generate(ctx, genReq)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.DeckGenerated(result.Metadata.IsFromCache)
	}
	s.publishGenerated(ctx, genReq, result)

	return toGenerateResponse(result), nil
}

// publishGenerated is best-effort; a missing or failing bus never fails the
// request.
func (s *flashcardService) publishGenerated(ctx context.Context, req executor.GenerationRequest, result *executor.GenerationResult) {
	if s.publisher == nil {
		return
	}

	event := events.NewDeckGeneratedEvent(events.DeckGenerated{
		UserId:           req.UserId,
		FileName:         req.FileName,
		ContentHash:      deckcache.ContentHash(req.Text, req.FileName, req.Filters),
		CardCount:        len(result.Flashcards),
		ChapterCount:     len(result.ChapterDecks),
		FromCache:        result.Metadata.IsFromCache,
		RetrievalMode:    result.Metadata.RetrievalMode,
		ProcessingTimeMs: result.Metadata.ProcessingTimeMs,
	})
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("FlashcardService", "Failed to publish deck event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *flashcardService) CacheStats(ctx context.Context) (*dto.CacheStatsResponse, error) {
	stats := s.deckCache.Stats()
	return &dto.CacheStatsResponse{
		DeckCacheSize:     stats.Size,
		DeckCacheEntries:  stats.Entries,
		ContentCacheItems: s.contentCache.ItemCount(),
	}, nil
}

func (s *flashcardService) ClearCache(ctx context.Context) error {
	s.deckCache.Clear(ctx)
	s.contentCache.Clear()
	s.logger.Info("FlashcardService", "Caches cleared", nil)
	return nil
}

func (s *flashcardService) ListDocumentChunks(ctx context.Context, userId uuid.UUID, documentId string) ([]*dto.DocumentChunkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().FindAll(ctx,
		specification.ByDocument{DocumentId: documentId, UserId: userId.String()},
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentChunkResponse, 0, len(chunks))
	for _, c := range chunks {
		res = append(res, toChunkResponse(c))
	}
	return res, nil
}

func (s *flashcardService) ClearDocumentChunks(ctx context.Context, userId uuid.UUID, documentId string) (res *dto.ClearDocumentChunksResponse, err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	repo := uow.DocumentChunkRepository()
	count, err := repo.Count(ctx, specification.ByDocument{DocumentId: documentId, UserId: userId.String()})
	if err != nil {
		return nil, err
	}
	if err = repo.DeleteByDocument(ctx, documentId, userId.String()); err != nil {
		return nil, fmt.Errorf("delete document chunks: %w", err)
	}
	if err = uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("FlashcardService", "Cleared document chunks", map[string]interface{}{
		"document_id": documentId,
		"deleted":     count,
	})
	return &dto.ClearDocumentChunksResponse{DocumentId: documentId, Deleted: count}, nil
}

func toChunkResponse(c *entity.Chunk) *dto.DocumentChunkResponse {
	return &dto.DocumentChunkResponse{
		Id:           c.Id,
		Content:      c.Content,
		ChapterTitle: c.Metadata.ChapterTitle,
		PageNumber:   c.Metadata.PageNumber,
		ChunkIndex:   c.Metadata.ChunkIndex,
		ContentType:  c.Metadata.ContentType,
		Dimension:    len(c.Embedding),
	}
}

func toGenerateResponse(r *executor.GenerationResult) *dto.GenerateFlashcardsResponse {
	m := r.Metadata
	return &dto.GenerateFlashcardsResponse{
		Flashcards:   r.Flashcards,
		ChapterDecks: r.ChapterDecks,
		Metadata: dto.GenerationMetadataResponse{
			ProcessingTimeMs: m.ProcessingTimeMs,
			IsFromCache:      m.IsFromCache,
			ChunkCounts: dto.ChunkCountsResponse{
				Chunked:   m.ChunkCounts.Chunked,
				Embedded:  m.ChunkCounts.Embedded,
				Persisted: m.ChunkCounts.Persisted,
				Retrieved: m.ChunkCounts.Retrieved,
			},
			FileName:      m.FileName,
			RetrievalMode: m.RetrievalMode,
			TotalChunks:   m.TotalChunks,
			TotalPages:    m.TotalPages,
		},
	}
}
