package prompt

import (
	"errors"
	"fmt"
	"strings"

	"ai-flashcard-be/internal/entity"
)

const (
	maxContextChars = 400
	contextEdge     = 200
)

var ErrEmptyContext = errors.New("No content available for flashcard generation")

// Summarize keeps the head and tail of long chunk content.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= maxContextChars {
		return content
	}
	return string(runes[:contextEdge]) + "..." + string(runes[len(runes)-contextEdge:])
}

// FormatContext renders retrieved chunks as numbered context blocks.
func FormatContext(chunks []entity.Chunk) (string, error) {
	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		blocks = append(blocks, fmt.Sprintf("Context %d:\n%s", i+1, Summarize(chunk.Content)))
	}

	formatted := strings.Join(blocks, "\n\n")
	if strings.TrimSpace(formatted) == "" {
		return "", ErrEmptyContext
	}
	return formatted, nil
}
