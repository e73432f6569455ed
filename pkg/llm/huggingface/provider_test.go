package huggingface

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
	history := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}

	t.Run("schema becomes json_schema", func(t *testing.T) {
		schema := map[string]interface{}{"type": "array"}
		req := buildRequest(history, llm.Apply(llm.Options{}, llm.WithResponseSchema(schema)))

		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.Equal(t, schema, req.ResponseFormat.JSONSchema.Schema)
	})

	t.Run("plain json", func(t *testing.T) {
		req := buildRequest(history, llm.Apply(llm.Options{}, llm.WithJSONResponse()))
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Nil(t, req.ResponseFormat.JSONSchema)
	})

	t.Run("free text", func(t *testing.T) {
		assert.Nil(t, buildRequest(history, llm.Options{}).ResponseFormat)
	})
}

func TestHuggingFaceProvider_Generate(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	out, err := NewHuggingFaceProvider("hf-key", server.URL, "m").Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "Bearer hf-key", auth)
}

func TestHuggingFaceProvider_QuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"monthly quota reached"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewHuggingFaceProvider("", server.URL, "m").Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Equal(t, llm.KindQuota, llm.ClassifyError(err))
}
