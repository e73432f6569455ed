package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Pipeline  PipelineConfig
	Cache     CacheConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ProgressLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	MaxUploadMB        int
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
	Jina         string
	JwtSecret    string
}

type AIConfig struct {
	EmbeddingProvider  string // "hash", "sinusoid", "ollama", "gemini" or "jina"
	EmbeddingDimension int
	OllamaBaseURL      string
	OllamaModel        string
	LLMProvider        string // "gemini", "ollama" or "huggingface"
	LLMModel           string
	LLMBaseURL         string
	MaxRetries         int
	RetryBaseDelay     time.Duration
	GenerationTimeout  time.Duration
}

type PipelineConfig struct {
	ChunkStrategy     string // "sentence" or "page"
	BatchSize         int
	BatchDelay        time.Duration
	TopK              int
	Threshold         float64
	ContentCacheTTL   time.Duration
	CacheSweepPeriod  time.Duration
	ChunkCacheEnabled bool
}

type CacheConfig struct {
	DeckCacheBackend string // "postgres", "redis" or "memory"
	DeckCacheTTL     time.Duration
	LocalStorePath   string
}

type TelemetryConfig struct {
	OtelEnabled  bool
	OtelEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ProgressLogPath:    getEnv("PROGRESS_LOG_PATH", "logs/progress.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 20),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "hash"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 384),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.5-flash"),
			LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
			MaxRetries:         getEnvAsInt("LLM_MAX_RETRIES", 3),
			RetryBaseDelay:     getEnvAsDuration("LLM_RETRY_BASE_DELAY", 2*time.Second),
			GenerationTimeout:  getEnvAsDuration("GENERATION_TIMEOUT", 5*time.Minute),
		},
		Pipeline: PipelineConfig{
			ChunkStrategy:     getEnv("CHUNK_STRATEGY", "sentence"),
			BatchSize:         getEnvAsInt("EMBED_BATCH_SIZE", 5),
			BatchDelay:        getEnvAsDuration("EMBED_BATCH_DELAY", 100*time.Millisecond),
			TopK:              getEnvAsInt("RETRIEVAL_TOP_K", 10),
			Threshold:         getEnvAsFloat("RETRIEVAL_THRESHOLD", 0.6),
			ContentCacheTTL:   getEnvAsDuration("CONTENT_CACHE_TTL", 5*time.Minute),
			CacheSweepPeriod:  getEnvAsDuration("CONTENT_CACHE_SWEEP", 5*time.Minute),
			ChunkCacheEnabled: getEnvAsBool("CHUNK_CACHE_ENABLED", true),
		},
		Cache: CacheConfig{
			DeckCacheBackend: getEnv("DECK_CACHE_BACKEND", "postgres"),
			DeckCacheTTL:     getEnvAsDuration("DECK_CACHE_TTL", 24*time.Hour),
			LocalStorePath:   getEnv("LOCAL_STORE_PATH", "data/local.db"),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:  getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "ai-flashcard-be"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("250ms", "2s").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
