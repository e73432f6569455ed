package chunker

import (
	"regexp"
	"strings"

	"ai-flashcard-be/internal/entity"
)

var (
	chapterPattern    = regexp.MustCompile(`(?i)\b(chapter|section|part)\s+(\d+|[ivx]+)\b`)
	definitionPattern = regexp.MustCompile(`(?i)\b(is|are|means?|refers to|defined as)\b`)
	examplePattern    = regexp.MustCompile(`(?i)\b(for example|e\.g\.|such as)`)
	summaryPattern    = regexp.MustCompile(`(?i)\b(summary|conclusion|overview)\b`)
)

// GuessChapter returns a normalized chapter label such as "Chapter 3" when
// the content names one.
func GuessChapter(content string) string {
	m := chapterPattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	kind := strings.ToLower(m[1])
	return strings.ToUpper(kind[:1]) + kind[1:] + " " + strings.ToUpper(m[2])
}

// GuessContentType classifies content by surface patterns. Checks run in
// priority order: formula, definition, example, summary.
func GuessContentType(content string) string {
	switch {
	case strings.Contains(content, "=") || strings.Contains(content, "formula") || strings.Contains(content, "equation"):
		return entity.ContentTypeFormula
	case definitionPattern.MatchString(content):
		return entity.ContentTypeDefinition
	case examplePattern.MatchString(content):
		return entity.ContentTypeExample
	case summaryPattern.MatchString(content):
		return entity.ContentTypeSummary
	default:
		return entity.ContentTypeConcept
	}
}
