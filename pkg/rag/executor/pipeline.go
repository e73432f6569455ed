package executor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/pkg/cache"
	"ai-flashcard-be/pkg/chunker"
	"ai-flashcard-be/pkg/deckcache"
	"ai-flashcard-be/pkg/embedding"
	"ai-flashcard-be/pkg/llm"
	"ai-flashcard-be/pkg/rag/response"
	"ai-flashcard-be/pkg/rag/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type State string

const (
	StateCheckCache    State = "check_cache"
	StateChunk         State = "chunk"
	StateEmbed         State = "embed"
	StatePersistChunks State = "persist_chunks"
	StateRetrieve      State = "retrieve"
	StateFormatPrompt  State = "format_prompt"
	StateDelegate      State = "delegate"
	StateFallback      State = "fallback"
	StateStoreCache    State = "store_cache"
	StateDone          State = "done"
)

// Retrieval modes reported in the result metadata.
const (
	ModeCache          = "cache"
	ModeSemanticSearch = "semantic_search"
	ModeRawChunks      = "raw_chunks"
	ModeRawText        = "raw_text"
)

const wordsPerPage = 500

// ProgressFunc receives a completion fraction in [0,1] and a status line.
type ProgressFunc func(fraction float64, status string)

// ChunkStore persists embedded chunks per (document, user).
type ChunkStore interface {
	ReplaceDocumentChunks(ctx context.Context, documentId, userId string, chunks []entity.Chunk) error
	FindDocumentChunks(ctx context.Context, documentId, userId string) ([]entity.Chunk, error)
}

type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
	ObserveStep(step string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) CacheHit(string)                   {}
func (noopRecorder) CacheMiss(string)                  {}
func (noopRecorder) ObserveStep(string, time.Duration) {}

type Config struct {
	BatchSize     int
	BatchDelay    time.Duration
	TopK          int
	Threshold     float64
	ChunkCacheTTL time.Duration
	// ChunkCache memoizes chunk lists in the content cache by content hash.
	ChunkCache bool
}

func DefaultConfig() Config {
	return Config{
		BatchSize:     5,
		BatchDelay:    100 * time.Millisecond,
		TopK:          search.DefaultTopK,
		Threshold:     search.DefaultThreshold,
		ChunkCacheTTL: 5 * time.Minute,
		ChunkCache:    true,
	}
}

type GenerationRequest struct {
	Text       string
	FileName   string
	Filters    *entity.Filters
	TotalPages int
	UserId     string
	// Pages, when set, switches chunking to page-wise with exact page numbers.
	Pages      []string
	OnProgress ProgressFunc
}

type ChunkCounts struct {
	Chunked   int `json:"chunked"`
	Embedded  int `json:"embedded"`
	Persisted int `json:"persisted"`
	Retrieved int `json:"retrieved"`
}

type Metadata struct {
	ProcessingTimeMs int64       `json:"processing_time_ms"`
	IsFromCache      bool        `json:"is_from_cache"`
	ChunkCounts      ChunkCounts `json:"chunk_counts"`
	FileName         string      `json:"file_name"`
	RetrievalMode    string      `json:"retrieval_mode"`
	TotalChunks      int         `json:"total_chunks"`
	TotalPages       int         `json:"total_pages"`
}

type GenerationResult struct {
	Flashcards   []entity.TaggedFlashcard `json:"flashcards"`
	ChapterDecks []entity.ChapterDeck     `json:"chapter_decks"`
	Metadata     Metadata                 `json:"metadata"`
}

// generationRun carries the typed intermediate results between states.
type generationRun struct {
	req         GenerationRequest
	start       time.Time
	contentHash string
	totalPages  int
	progress    *progressTracker

	chunks    []entity.Chunk
	embedded  []entity.Chunk
	persisted int
	retrieved []entity.Chunk
	context   string
	decks     []entity.ChapterDeck
	mode      string
	fromCache bool

	// failure is the error that sent the run to the fallback state.
	failure error
}

type transition func(ctx context.Context, run *generationRun) (State, error)

// GenerationPipeline turns study material into chapter decks through an
// explicit state machine. Any failure between chunking and delegation
// moves the run to StateFallback, which generates from the raw text.
type GenerationPipeline struct {
	chunker      *chunker.Chunker
	embedder     embedding.TextEmbedder
	generator    *response.FlashcardGenerator
	deckCache    *deckcache.DeckCache
	chunkStore   ChunkStore
	contentCache *cache.ContentCache
	recorder     Recorder
	logger       logger.ILogger
	tracer       trace.Tracer
	cfg          Config

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(*GenerationPipeline)

func WithChunkStore(store ChunkStore) Option {
	return func(p *GenerationPipeline) {
		p.chunkStore = store
	}
}

func WithContentCache(c *cache.ContentCache) Option {
	return func(p *GenerationPipeline) {
		p.contentCache = c
	}
}

func WithRecorder(r Recorder) Option {
	return func(p *GenerationPipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(p *GenerationPipeline) {
		if cfg.BatchSize <= 0 {
			cfg.BatchSize = 1
		}
		p.cfg = cfg
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *GenerationPipeline) {
		p.now = now
	}
}

func NewGenerationPipeline(
	chk *chunker.Chunker,
	embedder embedding.TextEmbedder,
	generator *response.FlashcardGenerator,
	deckCache *deckcache.DeckCache,
	log logger.ILogger,
	opts ...Option,
) *GenerationPipeline {
	p := &GenerationPipeline{
		chunker:   chk,
		embedder:  embedder,
		generator: generator,
		deckCache: deckCache,
		recorder:  noopRecorder{},
		logger:    log,
		tracer:    otel.Tracer("flashcard-pipeline"),
		cfg:       DefaultConfig(),
		sleep:     sleepContext,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GenerationPipeline) transitions() map[State]transition {
	return map[State]transition{
		StateCheckCache:    p.checkCache,
		StateChunk:         p.chunk,
		StateEmbed:         p.embed,
		StatePersistChunks: p.persistChunks,
		StateRetrieve:      p.retrieve,
		StateFormatPrompt:  p.formatPrompt,
		StateDelegate:      p.delegate,
		StateFallback:      p.fallback,
		StateStoreCache:    p.storeCache,
	}
}

// fallsBack reports whether an error in the state is absorbed by the
// fallback state.
func fallsBack(state State) bool {
	switch state {
	case StateChunk, StateEmbed, StatePersistChunks, StateRetrieve, StateFormatPrompt, StateDelegate:
		return true
	}
	return false
}

// Generate runs the pipeline to completion. The only error it returns is a
// *llm.GenerationError from the fallback generation.
func (p *GenerationPipeline) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.generate", trace.WithAttributes(
		attribute.String("file_name", req.FileName),
		attribute.Int("text_length", len(req.Text)),
	))
	defer span.End()

	run := &generationRun{
		req:        req,
		start:      p.now(),
		totalPages: estimateTotalPages(req),
		progress:   newProgressTracker(req.OnProgress),
	}

	p.logger.Info("Pipeline", "Starting flashcard generation", map[string]interface{}{
		"file_name":   req.FileName,
		"user_id":     req.UserId,
		"text_length": len(req.Text),
		"total_pages": run.totalPages,
	})
	run.progress.report(0.05, "Initializing RAG pipeline...")

	steps := p.transitions()
	state := StateCheckCache
	for state != StateDone {
		if fallsBack(state) {
			if err := ctx.Err(); err != nil {
				run.failure = err
				state = StateFallback
				continue
			}
		}

		next, err := p.runStep(ctx, state, steps[state], run)
		if err != nil {
			if !fallsBack(state) {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				p.logger.Error("Pipeline", "Flashcard generation failed", map[string]interface{}{
					"state": string(state),
					"error": err.Error(),
				})
				return nil, llm.ToGenerationError(err)
			}
			p.logger.Warn("Pipeline", "Step failed, falling back to direct generation", map[string]interface{}{
				"state": string(state),
				"error": err.Error(),
			})
			run.failure = err
			state = StateFallback
			continue
		}
		state = next
	}

	result := p.buildResult(run)
	run.progress.report(1.0, "RAG flashcard generation complete!")

	span.SetAttributes(
		attribute.String("retrieval_mode", result.Metadata.RetrievalMode),
		attribute.Bool("from_cache", result.Metadata.IsFromCache),
	)
	p.logger.Info("Pipeline", "Flashcard generation finished", map[string]interface{}{
		"file_name":          req.FileName,
		"flashcards":         len(result.Flashcards),
		"chunks":             result.Metadata.ChunkCounts.Chunked,
		"retrieval_mode":     result.Metadata.RetrievalMode,
		"from_cache":         result.Metadata.IsFromCache,
		"processing_time_ms": result.Metadata.ProcessingTimeMs,
	})

	return result, nil
}

// runStep executes one transition inside its own span. A panic becomes an
// error so the caller can route it like any other failure.
func (p *GenerationPipeline) runStep(ctx context.Context, state State, fn transition, run *generationRun) (next State, err error) {
	if fn == nil {
		return "", fmt.Errorf("no transition for state %q", state)
	}

	ctx, span := p.tracer.Start(ctx, "pipeline."+string(state))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			next = ""
			err = fmt.Errorf("panic in %s: %v", state, r)
		}
		p.recorder.ObserveStep(string(state), time.Since(started))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return fn(ctx, run)
}

func (p *GenerationPipeline) buildResult(run *generationRun) *GenerationResult {
	flashcards := entity.Flatten(run.decks)
	return &GenerationResult{
		Flashcards:   flashcards,
		ChapterDecks: run.decks,
		Metadata: Metadata{
			ProcessingTimeMs: p.now().Sub(run.start).Milliseconds(),
			IsFromCache:      run.fromCache,
			ChunkCounts: ChunkCounts{
				Chunked:   len(run.chunks),
				Embedded:  len(run.embedded),
				Persisted: run.persisted,
				Retrieved: len(run.retrieved),
			},
			FileName:      run.req.FileName,
			RetrievalMode: run.mode,
			TotalChunks:   len(flashcards),
			TotalPages:    run.totalPages,
		},
	}
}

// estimateTotalPages trusts the caller, then the page list, then assumes
// about 500 words per page.
func estimateTotalPages(req GenerationRequest) int {
	if req.TotalPages > 0 {
		return req.TotalPages
	}
	if len(req.Pages) > 0 {
		return len(req.Pages)
	}
	words := len(strings.Fields(req.Text))
	pages := int(math.Ceil(float64(words) / wordsPerPage))
	if pages < 1 {
		return 1
	}
	return pages
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
