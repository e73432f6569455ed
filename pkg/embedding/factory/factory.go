package factory

import (
	"fmt"

	"ai-flashcard-be/pkg/embedding"
	"ai-flashcard-be/pkg/embedding/jina"
)

type Config struct {
	Provider    string
	Dimension   int
	OllamaURL   string
	OllamaModel string
	GeminiKey   string
	JinaKey     string
}

// NewTextEmbedder returns the pseudo-embedder by default. Remote providers
// must be configured to emit vectors of cfg.Dimension.
func NewTextEmbedder(cfg Config) (embedding.TextEmbedder, error) {
	dim := cfg.Dimension
	if dim <= 0 {
		dim = embedding.DefaultDimension
	}

	switch cfg.Provider {
	case "", "hash":
		return embedding.NewHashEmbedder(dim), nil
	case "sinusoid":
		return embedding.NewSinusoidEmbedder(dim), nil
	case "ollama":
		provider := embedding.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel)
		return embedding.NewProviderEmbedder(provider, embedding.TaskRetrievalDocument, dim), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("gemini embedding requires GEMINI_API_KEY")
		}
		provider := embedding.NewGeminiProvider(cfg.GeminiKey, dim)
		return embedding.NewProviderEmbedder(provider, embedding.TaskRetrievalDocument, dim), nil
	case "jina":
		if cfg.JinaKey == "" {
			return nil, fmt.Errorf("jina embedding requires JINA_API_KEY")
		}
		provider := jina.NewJinaProvider(cfg.JinaKey, dim)
		return embedding.NewProviderEmbedder(provider, embedding.TaskRetrievalDocument, dim), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
