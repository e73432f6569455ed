package bootstrap

import (
	"context"
	"log"

	"ai-flashcard-be/internal/config"
	"ai-flashcard-be/internal/controller"
	"ai-flashcard-be/internal/handler"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/repository/memory"
	"ai-flashcard-be/internal/repository/unitofwork"
	"ai-flashcard-be/internal/service"
	"ai-flashcard-be/internal/websocket"
	"ai-flashcard-be/pkg/cache"
	"ai-flashcard-be/pkg/chunker"
	"ai-flashcard-be/pkg/deckcache"
	"ai-flashcard-be/pkg/embedding"
	embeddingFactory "ai-flashcard-be/pkg/embedding/factory"
	"ai-flashcard-be/pkg/events"
	"ai-flashcard-be/pkg/llm"
	llmFactory "ai-flashcard-be/pkg/llm/factory"
	"ai-flashcard-be/pkg/localstore"
	"ai-flashcard-be/pkg/metrics"
	"ai-flashcard-be/pkg/rag/executor"
	"ai-flashcard-be/pkg/rag/response"

	pktNats "ai-flashcard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FlashcardController controller.IFlashcardController
	TutorController     controller.ITutorController
	DeckController      controller.IDeckController

	// Background Services (Exposed for main.go to run)
	ProgressService  service.IProgressService
	DeckEventService *service.DeckEventService

	// WebSockets & Progress
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub

	Metrics *metrics.Metrics
	Logger  logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	perf := metrics.New()
	contentCache := cache.New(cfg.Pipeline.ContentCacheTTL, cfg.Pipeline.CacheSweepPeriod)

	c := &Container{Metrics: perf, Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := service.NewProgressBus(watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// 4. AI Providers
	textEmbedder, err := embeddingFactory.NewTextEmbedder(embeddingFactory.Config{
		Provider:    cfg.Ai.EmbeddingProvider,
		Dimension:   cfg.Ai.EmbeddingDimension,
		OllamaURL:   cfg.Ai.OllamaBaseURL,
		OllamaModel: cfg.Ai.OllamaModel,
		GeminiKey:   cfg.Keys.GoogleGemini,
		JinaKey:     cfg.Keys.Jina,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (dim %d)", cfg.Ai.EmbeddingProvider, textEmbedder.Dimension())
	cachedEmbedder := embedding.NewCachedEmbedder(textEmbedder, contentCache, cfg.Pipeline.ContentCacheTTL, sysLogger)

	llmProvider, err := llmFactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		llmAPIKey(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	retrying := llm.NewRetryProvider(llmProvider, llm.RetryPolicy{
		MaxAttempts: cfg.Ai.MaxRetries,
		BaseDelay:   cfg.Ai.RetryBaseDelay,
	}, sysLogger)

	// 5. Deck Cache (memory -> durable store -> local mirror)
	var mirror deckcache.Mirror
	local, err := localstore.Open(cfg.Cache.LocalStorePath)
	if err != nil {
		log.Printf("[WARN] Local store unavailable, deck cache mirror disabled: %v", err)
	} else {
		mirror = deckcache.NewKeyValueMirror(local)
		c.closers = append(c.closers, func() { _ = local.Close() })
	}

	deckCache := deckcache.New(ctx, deckCacheStore(cfg, uowFactory, rdb), mirror, sysLogger,
		deckcache.WithTTL(cfg.Cache.DeckCacheTTL),
		deckcache.WithRecorder(perf),
	)

	// 6. Generation Pipeline
	strategy := chunker.StrategySentence
	if cfg.Pipeline.ChunkStrategy == "page" {
		strategy = chunker.StrategyPage
	}

	pipelineCfg := executor.DefaultConfig()
	pipelineCfg.BatchSize = cfg.Pipeline.BatchSize
	pipelineCfg.BatchDelay = cfg.Pipeline.BatchDelay
	pipelineCfg.TopK = cfg.Pipeline.TopK
	pipelineCfg.Threshold = cfg.Pipeline.Threshold
	pipelineCfg.ChunkCacheTTL = cfg.Pipeline.ContentCacheTTL
	pipelineCfg.ChunkCache = cfg.Pipeline.ChunkCacheEnabled

	pipeline := executor.NewGenerationPipeline(
		chunker.New(chunker.WithStrategy(strategy)),
		cachedEmbedder,
		response.NewFlashcardGenerator(retrying, sysLogger),
		deckCache,
		sysLogger,
		executor.WithConfig(pipelineCfg),
		executor.WithChunkStore(service.NewDocumentChunkStore(uowFactory)),
		executor.WithContentCache(contentCache),
		executor.WithRecorder(perf),
	)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.ProgressLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(ctx)

	// 7. Services
	progressService := service.NewProgressService(pubSub, pubSub, wsHub, wsLogger)
	flashcardService := service.NewFlashcardService(
		pipeline,
		deckCache,
		contentCache,
		uowFactory,
		eventPublisher,
		progressService,
		perf,
		sysLogger,
		cfg.Ai.GenerationTimeout,
	)
	tutorService := service.NewTutorService(retrying, memory.NewTutorSessionRepository(), sysLogger)
	deckService := service.NewDeckService(uowFactory, sysLogger)
	deckEventService := service.NewDeckEventService(natsSub, perf, sysLogger)

	// 8. Controllers
	auth := serverutils.JwtMiddleware(cfg.Keys.JwtSecret)

	c.FlashcardController = controller.NewFlashcardController(flashcardService, auth, cfg.App.MaxUploadMB)
	c.TutorController = controller.NewTutorController(tutorService, auth)
	c.DeckController = controller.NewDeckController(deckService, auth)
	c.ProgressService = progressService
	c.DeckEventService = deckEventService
	c.ProgressHandler = handler.NewProgressHandler(wsHub, cfg.Keys.JwtSecret, wsLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func llmAPIKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "huggingface":
		return cfg.Keys.HuggingFace
	case "ollama":
		return ""
	default:
		return cfg.Keys.GoogleGemini
	}
}

func deckCacheStore(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, rdb *redis.Client) deckcache.Store {
	switch cfg.Cache.DeckCacheBackend {
	case "redis":
		return deckcache.NewRedisStore(rdb, cfg.Cache.DeckCacheTTL)
	case "memory":
		return deckcache.NewMemoryStore()
	default:
		return service.NewPdfCacheStore(uowFactory)
	}
}
