package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/model"

	"gorm.io/datatypes"
)

type UserDeckMapper struct{}

func NewUserDeckMapper() *UserDeckMapper {
	return &UserDeckMapper{}
}

func decodeJSON(raw datatypes.JSON, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func (m *UserDeckMapper) ToEntity(d *model.UserDeck) (*entity.UserDeck, error) {
	if d == nil {
		return nil, nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	deck := &entity.UserDeck{
		Id:             d.Id,
		UserId:         d.UserId,
		PdfName:        d.PdfName,
		FlashcardDecks: []entity.ChapterDeck{},
		KnownCards:     []entity.Flashcard{},
		ReviseCards:    []entity.Flashcard{},
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
	}
	if err := decodeJSON(d.FlashcardDecks, &deck.FlashcardDecks); err != nil {
		return nil, fmt.Errorf("decode flashcard decks: %w", err)
	}
	if err := decodeJSON(d.KnownCards, &deck.KnownCards); err != nil {
		return nil, fmt.Errorf("decode known cards: %w", err)
	}
	if err := decodeJSON(d.ReviseCards, &deck.ReviseCards); err != nil {
		return nil, fmt.Errorf("decode revise cards: %w", err)
	}
	return deck, nil
}

func (m *UserDeckMapper) ToModel(d *entity.UserDeck) (*model.UserDeck, error) {
	if d == nil {
		return nil, nil
	}

	decks, err := json.Marshal(nonNilDecks(d.FlashcardDecks))
	if err != nil {
		return nil, err
	}
	known, err := json.Marshal(nonNilCards(d.KnownCards))
	if err != nil {
		return nil, err
	}
	revise, err := json.Marshal(nonNilCards(d.ReviseCards))
	if err != nil {
		return nil, err
	}

	return &model.UserDeck{
		Id:             d.Id,
		UserId:         d.UserId,
		PdfName:        d.PdfName,
		FlashcardDecks: datatypes.JSON(decks),
		KnownCards:     datatypes.JSON(known),
		ReviseCards:    datatypes.JSON(revise),
		CreatedAt:      d.CreatedAt,
	}, nil
}

func nonNilDecks(d []entity.ChapterDeck) []entity.ChapterDeck {
	if d == nil {
		return []entity.ChapterDeck{}
	}
	return d
}

func nonNilCards(c []entity.Flashcard) []entity.Flashcard {
	if c == nil {
		return []entity.Flashcard{}
	}
	return c
}
