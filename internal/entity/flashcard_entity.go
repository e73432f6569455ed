package entity

// DefaultChapterTitle is used for cards that carry no chapter.
const DefaultChapterTitle = "General"

type Flashcard struct {
	Id       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ChapterDeck struct {
	ChapterTitle string      `json:"chapter_title"`
	Flashcards   []Flashcard `json:"flashcards"`
}

// TaggedFlashcard is the flat form of a card annotated with its chapter.
type TaggedFlashcard struct {
	Id       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Chapter  string `json:"chapter"`
}

// Flatten turns chapter decks into a flat card list, keeping deck order.
func Flatten(decks []ChapterDeck) []TaggedFlashcard {
	cards := make([]TaggedFlashcard, 0)
	for _, deck := range decks {
		for _, card := range deck.Flashcards {
			cards = append(cards, TaggedFlashcard{
				Id:       card.Id,
				Question: card.Question,
				Answer:   card.Answer,
				Chapter:  deck.ChapterTitle,
			})
		}
	}
	return cards
}

// GroupByChapter rebuilds chapter decks from tagged cards in first-seen
// chapter order. An empty input yields a single empty General deck.
func GroupByChapter(cards []TaggedFlashcard) []ChapterDeck {
	order := make([]string, 0)
	grouped := make(map[string][]Flashcard)

	for _, card := range cards {
		chapter := card.Chapter
		if chapter == "" {
			chapter = DefaultChapterTitle
		}
		if _, ok := grouped[chapter]; !ok {
			order = append(order, chapter)
		}
		grouped[chapter] = append(grouped[chapter], Flashcard{
			Id:       card.Id,
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	if len(order) == 0 {
		return []ChapterDeck{{ChapterTitle: DefaultChapterTitle, Flashcards: []Flashcard{}}}
	}

	decks := make([]ChapterDeck, 0, len(order))
	for _, chapter := range order {
		decks = append(decks, ChapterDeck{ChapterTitle: chapter, Flashcards: grouped[chapter]})
	}
	return decks
}

// CountCards returns the total number of cards across decks.
func CountCards(decks []ChapterDeck) int {
	total := 0
	for _, deck := range decks {
		total += len(deck.Flashcards)
	}
	return total
}
