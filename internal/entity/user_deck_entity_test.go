package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id string) Flashcard {
	return Flashcard{Id: id, Question: "Q" + id, Answer: "A" + id}
}

func sampleDeck() *UserDeck {
	return &UserDeck{
		FlashcardDecks: []ChapterDeck{
			{ChapterTitle: "One", Flashcards: []Flashcard{card("1"), card("2")}},
			{ChapterTitle: "Two", Flashcards: []Flashcard{card("3")}},
		},
		KnownCards:  []Flashcard{},
		ReviseCards: []Flashcard{},
	}
}

func TestUserDeck_Mark(t *testing.T) {
	d := sampleDeck()

	require.NoError(t, d.MarkKnown("1"))
	require.NoError(t, d.MarkRevise("3"))

	assert.Equal(t, []Flashcard{card("2")}, d.FlashcardDecks[0].Flashcards)
	assert.Empty(t, d.FlashcardDecks[1].Flashcards)
	assert.Equal(t, []Flashcard{card("1")}, d.KnownCards)
	assert.Equal(t, []Flashcard{card("3")}, d.ReviseCards)
	assert.Equal(t, 3, d.TotalCards())

	assert.ErrorIs(t, d.MarkKnown("1"), ErrCardNotFound)
}

func TestUserDeck_Undo(t *testing.T) {
	d := sampleDeck()
	require.NoError(t, d.MarkRevise("3"))

	require.NoError(t, d.Undo("3", "Two"))
	assert.Empty(t, d.ReviseCards)
	assert.Equal(t, []Flashcard{card("3")}, d.FlashcardDecks[1].Flashcards)

	t.Run("unknown chapter goes to the first one", func(t *testing.T) {
		require.NoError(t, d.MarkKnown("1"))
		require.NoError(t, d.Undo("1", "Missing"))
		assert.Equal(t, []Flashcard{card("2"), card("1")}, d.FlashcardDecks[0].Flashcards)
	})

	assert.ErrorIs(t, d.Undo("nope", ""), ErrCardNotFound)
}

func TestUserDeck_PromoteRevised(t *testing.T) {
	d := sampleDeck()
	require.NoError(t, d.MarkRevise("2"))

	require.NoError(t, d.PromoteRevised("2"))
	assert.Empty(t, d.ReviseCards)
	assert.Equal(t, []Flashcard{card("2")}, d.KnownCards)

	assert.ErrorIs(t, d.PromoteRevised("2"), ErrCardNotFound)
}

func TestUserDeck_Reset(t *testing.T) {
	d := sampleDeck()
	require.NoError(t, d.MarkKnown("1"))
	require.NoError(t, d.MarkKnown("2"))
	require.NoError(t, d.MarkRevise("3"))

	d.Reset()

	assert.Empty(t, d.KnownCards)
	assert.Empty(t, d.ReviseCards)
	// known 1, known 2, revise 3 dealt over two chapters
	assert.Equal(t, []Flashcard{card("1"), card("3")}, d.FlashcardDecks[0].Flashcards)
	assert.Equal(t, []Flashcard{card("2")}, d.FlashcardDecks[1].Flashcards)
	assert.Equal(t, 3, d.TotalCards())
}

func TestFlattenAndGroup(t *testing.T) {
	decks := sampleDeck().FlashcardDecks

	flat := Flatten(decks)
	require.Len(t, flat, 3)
	assert.Equal(t, "Two", flat[2].Chapter)
	assert.Equal(t, decks, GroupByChapter(flat))

	t.Run("empty input yields a General deck", func(t *testing.T) {
		grouped := GroupByChapter(nil)
		require.Len(t, grouped, 1)
		assert.Equal(t, DefaultChapterTitle, grouped[0].ChapterTitle)
		assert.Empty(t, grouped[0].Flashcards)
	})

	t.Run("blank chapter falls back to General", func(t *testing.T) {
		grouped := GroupByChapter([]TaggedFlashcard{{Id: "x", Question: "q", Answer: "a"}})
		assert.Equal(t, DefaultChapterTitle, grouped[0].ChapterTitle)
	})
}

func TestFilters_IsDefault(t *testing.T) {
	var nilFilters *Filters
	assert.True(t, nilFilters.IsDefault())

	f := DefaultFilters()
	assert.True(t, f.IsDefault())

	f.Depth = DepthShort
	assert.False(t, f.IsDefault())
}
