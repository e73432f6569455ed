package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorKind string

const (
	KindOverloaded   ErrorKind = "overloaded"
	KindRateLimit    ErrorKind = "rate_limit"
	KindQuota        ErrorKind = "quota"
	KindTimeout      ErrorKind = "timeout"
	KindInvalidKey   ErrorKind = "invalid_key"
	KindNetwork      ErrorKind = "network"
	KindParse        ErrorKind = "parse"
	KindInvalidInput ErrorKind = "invalid_input"
	KindExhausted    ErrorKind = "exhausted"
	KindGeneric      ErrorKind = "generic"
)

const (
	MsgOverloaded  = "The AI service is currently overloaded. Please wait a moment and try again. The system will automatically retry for you."
	MsgInvalidKey  = "Invalid API key. Please check your LLM API key configuration."
	MsgQuota       = "API quota exceeded. Please try again later or check your API usage limits."
	MsgNetwork     = "Network error. Please check your internet connection and try again."
	MsgUnavailable = "The AI service is temporarily unavailable. Please try again in a few minutes."
)

// StatusError is a non-2xx answer from a provider's HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// RetryExhaustedError wraps the last error once every attempt failed.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("max retries exceeded after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// GenerationError is the typed failure surfaced to callers. Message is safe
// to display as is.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewInvalidInputError(message string) *GenerationError {
	return &GenerationError{Kind: KindInvalidInput, Message: message}
}

func NewParseError(err error) *GenerationError {
	return &GenerationError{
		Kind:    KindParse,
		Message: "Failed to generate flashcards: " + err.Error(),
		Err:     err,
	}
}

// ClassifyError maps an error to a kind from status codes first, then by
// message substrings.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusServiceUnavailable:
			return KindOverloaded
		case http.StatusTooManyRequests:
			if strings.Contains(strings.ToLower(statusErr.Body), "quota") {
				return KindQuota
			}
			return KindRateLimit
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindInvalidKey
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return KindTimeout
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "overloaded"), strings.Contains(e, "unavailable"):
		return KindOverloaded
	case strings.Contains(e, "api key"), strings.Contains(e, "api_key"), strings.Contains(e, "unauthorized"):
		return KindInvalidKey
	case strings.Contains(e, "quota"), strings.Contains(e, "resource_exhausted"):
		return KindQuota
	case strings.Contains(e, "rate limit"), strings.Contains(e, "too many requests"):
		return KindRateLimit
	case strings.Contains(e, "timeout"), strings.Contains(e, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(e, "network"), strings.Contains(e, "connection refused"),
		strings.Contains(e, "no such host"), strings.Contains(e, "dial tcp"), strings.Contains(e, "connection reset"):
		return KindNetwork
	default:
		return KindGeneric
	}
}

// IsRetryable reports whether a failure of this kind is worth another
// attempt.
func IsRetryable(kind ErrorKind) bool {
	switch kind {
	case KindOverloaded, KindRateLimit, KindQuota, KindTimeout:
		return true
	default:
		return false
	}
}

// ToGenerationError converts any provider failure to a GenerationError with
// a display message.
func ToGenerationError(err error) *GenerationError {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	kind := ClassifyError(err)
	var exhausted *RetryExhaustedError
	if errors.As(err, &exhausted) && (kind == KindTimeout || kind == KindGeneric) {
		kind = KindExhausted
	}

	return &GenerationError{Kind: kind, Message: messageFor(kind, err), Err: err}
}

func messageFor(kind ErrorKind, err error) string {
	switch kind {
	case KindOverloaded:
		return MsgOverloaded
	case KindInvalidKey:
		return MsgInvalidKey
	case KindQuota, KindRateLimit:
		return MsgQuota
	case KindNetwork:
		return MsgNetwork
	case KindExhausted, KindTimeout:
		return MsgUnavailable
	default:
		return "Failed to generate flashcards: " + err.Error()
	}
}
