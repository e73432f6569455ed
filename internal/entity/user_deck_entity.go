package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type UserDeck struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	PdfName        string
	FlashcardDecks []ChapterDeck
	KnownCards     []Flashcard
	ReviseCards    []Flashcard
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

var ErrCardNotFound = errors.New("card not found in deck")

// TotalCards counts cards still to study plus both review lists.
func (d *UserDeck) TotalCards() int {
	return CountCards(d.FlashcardDecks) + len(d.KnownCards) + len(d.ReviseCards)
}

// takeFromChapters removes the card from whichever chapter holds it.
func (d *UserDeck) takeFromChapters(cardId string) (Flashcard, bool) {
	for i, chapter := range d.FlashcardDecks {
		for j, card := range chapter.Flashcards {
			if card.Id == cardId {
				rest := make([]Flashcard, 0, len(chapter.Flashcards)-1)
				rest = append(rest, chapter.Flashcards[:j]...)
				rest = append(rest, chapter.Flashcards[j+1:]...)
				d.FlashcardDecks[i].Flashcards = rest
				return card, true
			}
		}
	}
	return Flashcard{}, false
}

func takeFromList(list []Flashcard, cardId string) ([]Flashcard, Flashcard, bool) {
	for i, card := range list {
		if card.Id == cardId {
			rest := make([]Flashcard, 0, len(list)-1)
			rest = append(rest, list[:i]...)
			rest = append(rest, list[i+1:]...)
			return rest, card, true
		}
	}
	return list, Flashcard{}, false
}

// MarkKnown moves a card out of its chapter onto the known list.
func (d *UserDeck) MarkKnown(cardId string) error {
	card, ok := d.takeFromChapters(cardId)
	if !ok {
		return ErrCardNotFound
	}
	d.KnownCards = append(d.KnownCards, card)
	return nil
}

// MarkRevise moves a card out of its chapter onto the revise list.
func (d *UserDeck) MarkRevise(cardId string) error {
	card, ok := d.takeFromChapters(cardId)
	if !ok {
		return ErrCardNotFound
	}
	d.ReviseCards = append(d.ReviseCards, card)
	return nil
}

// Undo returns a marked card to the end of the named chapter, or to the
// first chapter when the name matches none.
func (d *UserDeck) Undo(cardId, chapterTitle string) error {
	var card Flashcard
	var ok bool
	if d.KnownCards, card, ok = takeFromList(d.KnownCards, cardId); !ok {
		if d.ReviseCards, card, ok = takeFromList(d.ReviseCards, cardId); !ok {
			return ErrCardNotFound
		}
	}

	if len(d.FlashcardDecks) == 0 {
		d.FlashcardDecks = []ChapterDeck{{ChapterTitle: DefaultChapterTitle}}
	}
	target := 0
	for i, chapter := range d.FlashcardDecks {
		if chapter.ChapterTitle == chapterTitle {
			target = i
			break
		}
	}
	d.FlashcardDecks[target].Flashcards = append(d.FlashcardDecks[target].Flashcards, card)
	return nil
}

// PromoteRevised moves a card from the revise list to the known list.
func (d *UserDeck) PromoteRevised(cardId string) error {
	var card Flashcard
	var ok bool
	if d.ReviseCards, card, ok = takeFromList(d.ReviseCards, cardId); !ok {
		return ErrCardNotFound
	}
	d.KnownCards = append(d.KnownCards, card)
	return nil
}

// Reset deals known then revise cards back over the chapters round-robin
// and empties both lists.
func (d *UserDeck) Reset() {
	restore := make([]Flashcard, 0, len(d.KnownCards)+len(d.ReviseCards))
	restore = append(restore, d.KnownCards...)
	restore = append(restore, d.ReviseCards...)
	d.KnownCards = []Flashcard{}
	d.ReviseCards = []Flashcard{}

	if len(restore) == 0 {
		return
	}
	if len(d.FlashcardDecks) == 0 {
		d.FlashcardDecks = []ChapterDeck{{ChapterTitle: DefaultChapterTitle}}
	}
	for i, card := range restore {
		target := i % len(d.FlashcardDecks)
		d.FlashcardDecks[target].Flashcards = append(d.FlashcardDecks[target].Flashcards, card)
	}
}
