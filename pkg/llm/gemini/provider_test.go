package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-flashcard-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a tutor."},
		{Role: llm.RoleUser, Content: "Why?"},
		{Role: llm.RoleAssistant, Content: "Because."},
	}
	schema := map[string]interface{}{"type": "ARRAY"}

	req := buildRequest(history, llm.Apply(llm.Options{}, llm.WithResponseSchema(schema), llm.WithTemperature(0.2)))

	require.NotNil(t, req.SystemInstruction)
	assert.Equal(t, "You are a tutor.", req.SystemInstruction.Parts[0].Text)
	require.Len(t, req.Contents, 2)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "model", req.Contents[1].Role)
	assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
	assert.Equal(t, schema, req.GenerationConfig.ResponseSchema)
	assert.Equal(t, 0.2, *req.GenerationConfig.Temperature)
}

func TestGeminiProvider_Generate(t *testing.T) {
	var gotKey, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]interface{}{"text": "[]"}},
					},
				},
			},
		})
	}))
	defer server.Close()

	p := NewGeminiProvider("secret", server.URL, "gemini-test")
	out, err := p.Generate(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)
}

func TestGeminiProvider_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`))
	}))
	defer server.Close()

	_, err := NewGeminiProvider("k", server.URL, "m").Generate(context.Background(), "hello")

	require.Error(t, err)
	assert.Equal(t, llm.KindOverloaded, llm.ClassifyError(err))
}
