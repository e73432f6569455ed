package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"503 status", &StatusError{Provider: "gemini", StatusCode: 503, Body: "{}"}, KindOverloaded},
		{"429 with quota body", &StatusError{StatusCode: 429, Body: "Quota exceeded for metric"}, KindQuota},
		{"429 plain", &StatusError{StatusCode: 429, Body: "slow down"}, KindRateLimit},
		{"401 status", &StatusError{StatusCode: 401}, KindInvalidKey},
		{"504 status", &StatusError{StatusCode: 504}, KindTimeout},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"overloaded text", errors.New("The model is overloaded"), KindOverloaded},
		{"api key text", errors.New("API key not valid"), KindInvalidKey},
		{"quota text", errors.New("RESOURCE_EXHAUSTED"), KindQuota},
		{"network text", errors.New("dial tcp 127.0.0.1:443: connection refused"), KindNetwork},
		{"other", errors.New("something odd"), KindGeneric},
		{"typed", NewInvalidInputError("Study material is empty."), KindInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(KindOverloaded))
	assert.True(t, IsRetryable(KindRateLimit))
	assert.True(t, IsRetryable(KindTimeout))
	assert.False(t, IsRetryable(KindInvalidKey))
	assert.False(t, IsRetryable(KindNetwork))
	assert.False(t, IsRetryable(KindGeneric))
}

func TestToGenerationError(t *testing.T) {
	t.Run("messages follow the kind", func(t *testing.T) {
		assert.Equal(t, MsgOverloaded, ToGenerationError(errors.New("model overloaded")).Message)
		assert.Equal(t, MsgInvalidKey, ToGenerationError(&StatusError{StatusCode: 403}).Message)
		assert.Equal(t, MsgQuota, ToGenerationError(errors.New("quota exceeded")).Message)
		assert.Equal(t, MsgNetwork, ToGenerationError(errors.New("network is unreachable")).Message)
	})

	t.Run("generic keeps the cause", func(t *testing.T) {
		ge := ToGenerationError(errors.New("boom"))
		assert.Equal(t, KindGeneric, ge.Kind)
		assert.Equal(t, "Failed to generate flashcards: boom", ge.Message)
	})

	t.Run("exhausted timeouts become unavailable", func(t *testing.T) {
		ge := ToGenerationError(&RetryExhaustedError{Attempts: 3, Err: context.DeadlineExceeded})
		assert.Equal(t, KindExhausted, ge.Kind)
		assert.Equal(t, MsgUnavailable, ge.Message)
	})

	t.Run("exhausted overload stays overloaded", func(t *testing.T) {
		ge := ToGenerationError(&RetryExhaustedError{Attempts: 3, Err: &StatusError{StatusCode: 503}})
		assert.Equal(t, KindOverloaded, ge.Kind)
	})

	t.Run("typed errors pass through", func(t *testing.T) {
		in := NewInvalidInputError("Study material is empty.")
		assert.Same(t, in, ToGenerationError(fmt.Errorf("wrap: %w", in)))
	})

	assert.Nil(t, ToGenerationError(nil))
}
