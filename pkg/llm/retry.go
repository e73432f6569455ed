package llm

import (
	"context"
	"fmt"
	"time"

	"ai-flashcard-be/internal/pkg/logger"
)

type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy is three attempts starting at two seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Delay returns the wait after the given failed attempt: base * 2^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * time.Duration(1<<uint(attempt-1))
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryProvider retries transient failures of the wrapped provider with
// exponential backoff. Permanent failures are returned immediately.
type RetryProvider struct {
	inner  LLMProvider
	policy RetryPolicy
	logger logger.ILogger
	sleep  sleepFunc
}

var _ LLMProvider = &RetryProvider{}

func NewRetryProvider(inner LLMProvider, policy RetryPolicy, log logger.ILogger) *RetryProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryProvider{
		inner:  inner,
		policy: policy,
		logger: log,
		sleep:  sleepContext,
	}
}

// WithPolicy returns a copy sharing the inner provider.
func (r *RetryProvider) WithPolicy(policy RetryPolicy) *RetryProvider {
	cp := *r
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	cp.policy = policy
	return &cp
}

func (r *RetryProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Chat(ctx, history, options...)
	})
}

func (r *RetryProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.inner.Generate(ctx, prompt, options...)
	})
}

func (r *RetryProvider) do(ctx context.Context, call func() (string, error)) (string, error) {
	for attempt := 1; ; attempt++ {
		res, err := call()
		if err == nil {
			return res, nil
		}

		kind := ClassifyError(err)
		if !IsRetryable(kind) {
			return "", err
		}
		if attempt >= r.policy.MaxAttempts {
			return "", &RetryExhaustedError{Attempts: attempt, Err: err}
		}

		delay := r.policy.Delay(attempt)
		r.logger.Warn("LLM", fmt.Sprintf("Retry attempt %d/%d after %s", attempt, r.policy.MaxAttempts, delay), map[string]interface{}{
			"error": err.Error(),
			"kind":  string(kind),
		})
		if err := r.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("retry aborted: %w", err)
		}
	}
}
