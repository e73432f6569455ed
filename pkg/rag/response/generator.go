package response

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/pkg/llm"
	"ai-flashcard-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

const (
	MsgEmptyMaterial    = "Study material is empty."
	MsgMaterialTooShort = "Study material is too short. Please upload a PDF with more content."

	minMaterialLength = 50
)

// FlashcardGenerator turns study material into chapter decks with one model
// call.
type FlashcardGenerator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	newId       func() string
}

func NewFlashcardGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *FlashcardGenerator {
	return &FlashcardGenerator{
		llmProvider: llmProvider,
		logger:      log,
		newId:       func() string { return uuid.New().String() },
	}
}

type rawCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type rawChapter struct {
	ChapterTitle string    `json:"chapterTitle"`
	Flashcards   []rawCard `json:"flashcards"`
}

// Generate validates the material, prompts the model for the deck schema and
// parses the answer. Every failure is a *llm.GenerationError.
func (g *FlashcardGenerator) Generate(ctx context.Context, material string, filters *entity.Filters, totalPages int) ([]entity.ChapterDeck, error) {
	if strings.TrimSpace(material) == "" {
		return nil, llm.NewInvalidInputError(MsgEmptyMaterial)
	}
	if len([]rune(material)) < minMaterialLength {
		return nil, llm.NewInvalidInputError(MsgMaterialTooShort)
	}

	promptText := prompt.BuildFlashcardPrompt(material, filters, totalPages)

	g.logger.Debug("Generator", "Sending flashcard prompt", map[string]interface{}{
		"material_length": len(material),
		"prompt_length":   len(promptText),
		"default_filters": prompt.IsDefault(filters),
	})

	raw, err := g.llmProvider.Generate(ctx, promptText, llm.WithResponseSchema(DeckSchema()))
	if err != nil {
		return nil, llm.ToGenerationError(err)
	}

	decks, err := g.Parse(raw)
	if err != nil {
		g.logger.Error("Generator", "Failed to parse model response", map[string]interface{}{
			"error":          err.Error(),
			"response_chars": len(raw),
		})
		return nil, llm.NewParseError(err)
	}

	g.logger.Info("Generator", "Flashcards generated", map[string]interface{}{
		"chapters": len(decks),
		"cards":    entity.CountCards(decks),
	})

	return decks, nil
}

// Parse decodes a model answer into decks. Markdown fences are tolerated and
// blank cards are dropped.
func (g *FlashcardGenerator) Parse(raw string) ([]entity.ChapterDeck, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var chapters []rawChapter
	if err := json.Unmarshal([]byte(body), &chapters); err != nil {
		// Some models wrap the array in an object.
		var wrapped struct {
			Chapters []rawChapter `json:"chapters"`
		}
		if err2 := json.Unmarshal([]byte(body), &wrapped); err2 != nil || wrapped.Chapters == nil {
			return nil, fmt.Errorf("invalid JSON in model response: %w", err)
		}
		chapters = wrapped.Chapters
	}

	tagged := make([]entity.TaggedFlashcard, 0)
	for _, chapter := range chapters {
		title := strings.TrimSpace(chapter.ChapterTitle)
		for _, card := range chapter.Flashcards {
			q := strings.TrimSpace(card.Question)
			a := strings.TrimSpace(card.Answer)
			if q == "" || a == "" {
				continue
			}
			tagged = append(tagged, entity.TaggedFlashcard{
				Id:       g.newId(),
				Question: q,
				Answer:   a,
				Chapter:  title,
			})
		}
	}

	return entity.GroupByChapter(tagged), nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
