package factory

import (
	"testing"

	"ai-flashcard-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextEmbedder(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    interface{}
		wantErr bool
	}{
		{name: "default is hash", cfg: Config{}, want: &embedding.HashEmbedder{}},
		{name: "sinusoid", cfg: Config{Provider: "sinusoid"}, want: &embedding.SinusoidEmbedder{}},
		{name: "ollama", cfg: Config{Provider: "ollama"}, want: &embedding.ProviderEmbedder{}},
		{name: "gemini without key", cfg: Config{Provider: "gemini"}, wantErr: true},
		{name: "jina with key", cfg: Config{Provider: "jina", JinaKey: "k"}, want: &embedding.ProviderEmbedder{}},
		{name: "unknown", cfg: Config{Provider: "word2vec"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTextEmbedder(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			assert.Equal(t, embedding.DefaultDimension, got.Dimension())
		})
	}
}
