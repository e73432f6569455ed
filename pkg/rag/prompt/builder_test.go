package prompt

import (
	"strings"
	"testing"

	"ai-flashcard-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const material = "Photosynthesis converts light energy into chemical energy."

func TestBuildFlashcardPrompt_DefaultFilters(t *testing.T) {
	want := "You are an expert AI study assistant. Analyze the following study material and convert it into a structured set of flashcards, organized by chapter or main topic. For each flashcard, provide a concise 'question' or 'term' for the front and a clear 'answer' or 'definition' for the back. The material is as follows: \n\n---START OF MATERIAL---\n" + material + "\n---END OF MATERIAL---"

	t.Run("nil filters", func(t *testing.T) {
		assert.Equal(t, want, BuildFlashcardPrompt(material, nil, 0))
	})

	t.Run("explicit defaults", func(t *testing.T) {
		f := entity.DefaultFilters()
		got := BuildFlashcardPrompt(material, &f, 12)
		assert.Equal(t, want, got)
		for _, phrase := range []string{"Focus on", "Specifically focus on", "Generate approximately", "Organize flashcards", "balanced detail"} {
			assert.NotContains(t, got, phrase)
		}
	})
}

func TestBuildFlashcardPrompt_CustomFilters(t *testing.T) {
	f := entity.Filters{
		StudyGoal:       entity.StudyGoalExamRevision,
		ContentType:     []string{entity.FilterContentFormulas, entity.FilterContentDefinitions},
		Depth:           entity.DepthShort,
		Organization:    entity.OrganizationTopicClusters,
		LimitPerChapter: 8,
		PageRange:       &entity.PageRange{From: 3, To: 9},
	}

	got := BuildFlashcardPrompt(material, &f, 20)

	assert.True(t, strings.HasPrefix(got, assistantIntro+" Focus on key facts, formulas"))
	assert.Contains(t, got, " Specifically focus on: mathematical formulas, equations, and calculations, key terms, definitions, and important concepts.")
	assert.Contains(t, got, " Keep flashcards concise and crisp - essential information only.")
	assert.Contains(t, got, " Group related flashcards by topic clusters rather than strict chapter order.")
	assert.Contains(t, got, " Generate approximately 8 flashcards per chapter/topic.")
	assert.Contains(t, got, " Focus on content from pages 3 to 9 of the material.")
	assert.True(t, strings.HasSuffix(got, "\n\n"+cardShape+" The material is as follows: \n\n---START OF MATERIAL---\n"+material+"\n---END OF MATERIAL---"))

	goal := strings.Index(got, "Focus on key facts")
	depth := strings.Index(got, "Keep flashcards concise")
	quantity := strings.Index(got, "Generate approximately")
	assert.Less(t, goal, depth)
	assert.Less(t, depth, quantity)
}

func TestBuildFlashcardPrompt_FullDetailSkipsContentTypes(t *testing.T) {
	f := entity.DefaultFilters()
	f.ContentType = []string{entity.FilterContentFormulas, entity.FilterContentFullDetail}

	got := BuildFlashcardPrompt(material, &f, 0)

	assert.NotContains(t, got, "Specifically focus on")
	assert.Contains(t, got, " Provide balanced detail - not too brief, not too verbose.")
	assert.Contains(t, got, " Generate approximately 15 flashcards per chapter/topic.")
}

func TestBuildFlashcardPrompt_SingleChangeIsCustom(t *testing.T) {
	f := entity.DefaultFilters()
	f.LimitPerChapter = 20

	require.False(t, IsDefault(&f))
	assert.Contains(t, BuildFlashcardPrompt(material, &f, 0), " Generate approximately 20 flashcards per chapter/topic.")
}

func TestFormatContext(t *testing.T) {
	t.Run("numbered blocks", func(t *testing.T) {
		got, err := FormatContext([]entity.Chunk{{Content: "first"}, {Content: "second"}})
		require.NoError(t, err)
		assert.Equal(t, "Context 1:\nfirst\n\nContext 2:\nsecond", got)
	})

	t.Run("long chunks keep head and tail", func(t *testing.T) {
		long := strings.Repeat("a", 200) + strings.Repeat("m", 50) + strings.Repeat("z", 200)
		got, err := FormatContext([]entity.Chunk{{Content: long}})
		require.NoError(t, err)
		assert.Equal(t, "Context 1:\n"+strings.Repeat("a", 200)+"..."+strings.Repeat("z", 200), got)
	})

	t.Run("exactly four hundred is untouched", func(t *testing.T) {
		exact := strings.Repeat("b", 400)
		assert.Equal(t, exact, Summarize(exact))
	})

	t.Run("no chunks is an error", func(t *testing.T) {
		_, err := FormatContext(nil)
		assert.ErrorIs(t, err, ErrEmptyContext)
	})
}

func TestTutorPrompts(t *testing.T) {
	card := entity.Flashcard{Question: "What is ATP?", Answer: "The energy currency of the cell."}

	explain := BuildExplanationPrompt(card)
	assert.Contains(t, explain, `Term/Question: "What is ATP?"`)
	assert.Contains(t, explain, `Answer/Definition: "The energy currency of the cell."`)

	instruction := BuildTutorInstruction(card)
	assert.True(t, strings.HasPrefix(instruction, "You are an expert AI tutor"))
	assert.Contains(t, instruction, `- Question: "What is ATP?"`)
}
