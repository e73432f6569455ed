package dto

import (
	"time"

	"ai-flashcard-be/internal/entity"

	"github.com/google/uuid"
)

type SaveDeckRequest struct {
	PdfName        string               `json:"pdf_name" validate:"required,max=255"`
	FlashcardDecks []entity.ChapterDeck `json:"flashcard_decks" validate:"required,min=1"`
}

type SaveDeckResponse struct {
	Id uuid.UUID `json:"id"`
}

type DeckSummaryResponse struct {
	Id          uuid.UUID `json:"id"`
	PdfName     string    `json:"pdf_name"`
	TotalCards  int       `json:"total_cards"`
	KnownCount  int       `json:"known_count"`
	ReviseCount int       `json:"revise_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type DeckResponse struct {
	Id             uuid.UUID            `json:"id"`
	PdfName        string               `json:"pdf_name"`
	FlashcardDecks []entity.ChapterDeck `json:"flashcard_decks"`
	KnownCards     []entity.Flashcard   `json:"known_cards"`
	ReviseCards    []entity.Flashcard   `json:"revise_cards"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      *time.Time           `json:"updated_at"`
}

type UndoCardRequest struct {
	// Chapter the card returns to; its first chapter when empty.
	ChapterTitle string `json:"chapter_title"`
}
