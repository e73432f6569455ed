package executor

import (
	"context"
	"errors"
	"fmt"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/pkg/chunker"
	"ai-flashcard-be/pkg/deckcache"
	"ai-flashcard-be/pkg/rag/prompt"
	"ai-flashcard-be/pkg/rag/search"

	"golang.org/x/sync/errgroup"
)

var errNoChunks = errors.New("chunking produced no chunks")

func (p *GenerationPipeline) checkCache(ctx context.Context, run *generationRun) (State, error) {
	req := run.req
	run.contentHash = deckcache.ContentHash(req.Text, req.FileName, req.Filters)
	run.progress.report(0.1, "Checking cache for existing PDF...")

	if p.deckCache != nil {
		if entry, ok := p.deckCache.Check(ctx, run.contentHash, req.UserId, req.Filters); ok {
			p.logger.Info("Pipeline", "Decks found in cache", map[string]interface{}{
				"content_hash": run.contentHash,
				"entry_id":     entry.Id,
			})
			run.progress.report(0.3, "Loading from cache...")
			run.decks = entry.ChapterDecks
			run.fromCache = true
			run.mode = ModeCache
			return StateDone, nil
		}
	}

	run.progress.report(0.2, "Chunking and analyzing content...")
	return StateChunk, nil
}

func chunkCacheKey(contentHash string) string {
	return "chunks_" + contentHash
}

func (p *GenerationPipeline) chunk(ctx context.Context, run *generationRun) (State, error) {
	req := run.req
	key := chunkCacheKey(run.contentHash)

	if p.cfg.ChunkCache && p.contentCache != nil {
		if cached, ok := p.contentCache.Get(key); ok {
			if chunks, ok := cached.([]entity.Chunk); ok && len(chunks) > 0 {
				p.recorder.CacheHit("chunks")
				run.chunks = append([]entity.Chunk(nil), chunks...)
				stampOwner(run.chunks, req)
				return StateEmbed, nil
			}
		}
		p.recorder.CacheMiss("chunks")
	}

	var chunks []entity.Chunk
	if len(req.Pages) > 0 {
		chunks = p.chunker.ChunkPages(req.Pages, req.FileName)
	} else {
		chunks = p.chunker.Chunk(req.Text, req.FileName, 0)
	}
	chunks = chunker.Deduplicate(chunks)
	if len(chunks) == 0 {
		return "", errNoChunks
	}

	stampOwner(chunks, req)

	if p.cfg.ChunkCache && p.contentCache != nil {
		p.contentCache.Set(key, append([]entity.Chunk(nil), chunks...), p.cfg.ChunkCacheTTL)
	}

	p.logger.Debug("Pipeline", "Chunked study material", map[string]interface{}{
		"chunks": len(chunks),
	})
	run.chunks = chunks
	return StateEmbed, nil
}

// stampOwner binds chunks to the requesting user and document. Cached chunk
// lists are keyed by content only, so they are re-stamped on every run.
func stampOwner(chunks []entity.Chunk, req GenerationRequest) {
	for i := range chunks {
		chunks[i].Metadata.DocumentId = req.FileName
		chunks[i].Metadata.UserId = req.UserId
	}
}

type memoizedEmbedder interface {
	Cached(text string) ([]float32, bool)
}

// embedOne prefers a memoized vector when the embedder keeps one.
func (p *GenerationPipeline) embedOne(ctx context.Context, text string) ([]float32, error) {
	if m, ok := p.embedder.(memoizedEmbedder); ok {
		if vec, hit := m.Cached(text); hit {
			p.recorder.CacheHit("embedding")
			return vec, nil
		}
		p.recorder.CacheMiss("embedding")
	}
	return p.embedder.Embed(ctx, text)
}

func (p *GenerationPipeline) embed(ctx context.Context, run *generationRun) (State, error) {
	total := len(run.chunks)
	size := p.cfg.BatchSize
	batches := (total + size - 1) / size
	embedded := make([]entity.Chunk, total)

	for start, batch := 0, 1; start < total; start, batch = start+size, batch+1 {
		end := start + size
		if end > total {
			end = total
		}

		run.progress.report(0.3+0.1*float64(start)/float64(total),
			fmt.Sprintf("Generating embeddings batch %d/%d...", batch, batches))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				vec, err := p.embedOne(gctx, run.chunks[i].Content)
				if err != nil {
					return fmt.Errorf("embed chunk %d: %w", i, err)
				}
				c := run.chunks[i]
				c.Embedding = vec
				embedded[i] = c
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}

		if end < total {
			if err := p.sleep(ctx, p.cfg.BatchDelay); err != nil {
				return "", err
			}
		}
	}

	run.embedded = embedded
	run.progress.report(0.4, "Storing chunks in database...")
	return StatePersistChunks, nil
}

// persistChunks is best-effort: a store failure is logged and the run keeps
// the in-memory chunks.
func (p *GenerationPipeline) persistChunks(ctx context.Context, run *generationRun) (State, error) {
	if p.chunkStore != nil {
		err := p.chunkStore.ReplaceDocumentChunks(ctx, run.req.FileName, run.req.UserId, run.embedded)
		if err != nil {
			p.logger.Warn("Pipeline", "Failed to store chunks, continuing with local processing", map[string]interface{}{
				"error":     err.Error(),
				"file_name": run.req.FileName,
			})
		} else {
			run.persisted = len(run.embedded)
		}
	}

	run.progress.report(0.5, "Generating flashcards with RAG...")
	return StateRetrieve, nil
}

// retrieve queries with the whole document and keeps the closest chunks.
// When nothing passes the threshold the raw chunk list is used instead.
func (p *GenerationPipeline) retrieve(ctx context.Context, run *generationRun) (State, error) {
	query, err := p.embedOne(ctx, run.req.Text)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	candidates := run.embedded
	if run.persisted > 0 {
		stored, err := p.chunkStore.FindDocumentChunks(ctx, run.req.FileName, run.req.UserId)
		if err != nil {
			p.logger.Warn("Pipeline", "Failed to read stored chunks, searching in memory", map[string]interface{}{
				"error": err.Error(),
			})
		} else if len(stored) > 0 {
			candidates = stored
		}
	}

	threshold := p.cfg.Threshold
	results := search.Search(query, candidates, search.SearchOptions{
		TopK:      p.cfg.TopK,
		Threshold: &threshold,
	})

	if len(results) == 0 {
		p.logger.Warn("Pipeline", "No chunks retrieved, using raw chunks", map[string]interface{}{
			"candidates": len(candidates),
		})
		run.progress.report(0.6, "Using direct content processing...")
		run.retrieved = run.chunks
		run.mode = ModeRawChunks
		return StateFormatPrompt, nil
	}

	run.retrieved = make([]entity.Chunk, 0, len(results))
	for _, r := range results {
		run.retrieved = append(run.retrieved, r.Chunk)
	}
	run.mode = ModeSemanticSearch
	run.progress.report(0.6, "Creating flashcards from retrieved content...")
	return StateFormatPrompt, nil
}

func (p *GenerationPipeline) formatPrompt(ctx context.Context, run *generationRun) (State, error) {
	formatted, err := prompt.FormatContext(run.retrieved)
	if err != nil {
		return "", err
	}
	run.context = formatted
	run.progress.report(0.63, "Formatting context for AI...")
	return StateDelegate, nil
}

func (p *GenerationPipeline) delegate(ctx context.Context, run *generationRun) (State, error) {
	run.progress.report(0.66, "Generating flashcards with AI...")
	decks, err := p.generator.Generate(ctx, run.context, run.req.Filters, run.totalPages)
	if err != nil {
		return "", err
	}
	run.decks = decks
	run.progress.report(0.87, "Processing RAG results...")
	return StateStoreCache, nil
}

// fallback generates straight from the raw text. Its errors end the run.
func (p *GenerationPipeline) fallback(ctx context.Context, run *generationRun) (State, error) {
	fields := map[string]interface{}{"file_name": run.req.FileName}
	if run.failure != nil {
		fields["cause"] = run.failure.Error()
	}
	p.logger.Warn("Pipeline", "Using original study material", fields)
	run.progress.report(0.7, "Using original study material...")

	decks, err := p.generator.Generate(ctx, run.req.Text, run.req.Filters, run.totalPages)
	if err != nil {
		return "", err
	}
	run.decks = decks
	run.mode = ModeRawText
	return StateStoreCache, nil
}

func (p *GenerationPipeline) storeCache(ctx context.Context, run *generationRun) (State, error) {
	run.progress.report(0.9, "Caching results for future use...")

	if p.deckCache != nil && entity.CountCards(run.decks) == 0 {
		p.logger.Warn("Pipeline", "Skipping cache for a run without flashcards", map[string]interface{}{
			"file_name": run.req.FileName,
		})
	} else if p.deckCache != nil {
		p.deckCache.Store(ctx, deckcache.StoreInput{
			ContentHash:      run.contentHash,
			UserId:           run.req.UserId,
			FileName:         run.req.FileName,
			TotalPages:       run.totalPages,
			TextLength:       len(run.req.Text),
			ChapterDecks:     run.decks,
			Filters:          run.req.Filters,
			ProcessingTimeMs: p.now().Sub(run.start).Milliseconds(),
			RagMetadata: &entity.RagMetadata{
				ChunksProcessed:     len(run.chunks),
				EmbeddingsGenerated: len(run.embedded),
				RetrievalMethod:     run.mode,
				ProcessingType:      "rag_pipeline",
			},
		})
	}

	run.progress.report(0.95, "Converting to RAG format...")
	return StateDone, nil
}
