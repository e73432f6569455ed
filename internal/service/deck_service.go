package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/repository/specification"
	"ai-flashcard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDeckService interface {
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDeckRequest) (*dto.SaveDeckResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DeckSummaryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	MarkKnown(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error)
	MarkRevise(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error)
	Undo(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string, req *dto.UndoCardRequest) (*dto.DeckResponse, error)
	Promote(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error)
	Reset(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error)
}

type deckService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewDeckService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IDeckService {
	return &deckService{uowFactory: uowFactory, logger: log}
}

func (s *deckService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveDeckRequest) (*dto.SaveDeckResponse, error) {
	chapters := make([]entity.ChapterDeck, 0, len(req.FlashcardDecks))
	for _, chapter := range req.FlashcardDecks {
		cards := make([]entity.Flashcard, 0, len(chapter.Flashcards))
		for _, c := range chapter.Flashcards {
			if c.Id == "" {
				c.Id = uuid.NewString()
			}
			cards = append(cards, c)
		}
		title := chapter.ChapterTitle
		if title == "" {
			title = entity.DefaultChapterTitle
		}
		chapters = append(chapters, entity.ChapterDeck{ChapterTitle: title, Flashcards: cards})
	}

	deck := entity.UserDeck{
		Id:             uuid.New(),
		UserId:         userId,
		PdfName:        req.PdfName,
		FlashcardDecks: chapters,
		KnownCards:     []entity.Flashcard{},
		ReviseCards:    []entity.Flashcard{},
		CreatedAt:      time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserDeckRepository().Create(ctx, &deck); err != nil {
		return nil, err
	}

	s.logger.Info("DeckService", "Deck saved", map[string]interface{}{
		"deck_id": deck.Id.String(),
		"cards":   deck.TotalCards(),
	})
	return &dto.SaveDeckResponse{Id: deck.Id}, nil
}

func (s *deckService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DeckSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	decks, err := uow.UserDeckRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DeckSummaryResponse, 0, len(decks))
	for _, d := range decks {
		res = append(res, &dto.DeckSummaryResponse{
			Id:          d.Id,
			PdfName:     d.PdfName,
			TotalCards:  d.TotalCards(),
			KnownCount:  len(d.KnownCards),
			ReviseCount: len(d.ReviseCards),
			CreatedAt:   d.CreatedAt,
		})
	}
	return res, nil
}

func (s *deckService) find(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.UserDeck, error) {
	deck, err := uow.UserDeckRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, fmt.Errorf("deck %s: %w", id, serverutils.ErrNotFound)
	}
	return deck, nil
}

func (s *deckService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	deck, err := s.find(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toDeckResponse(deck), nil
}

func (s *deckService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.find(ctx, uow, userId, id); err != nil {
		return err
	}
	return uow.UserDeckRepository().Delete(ctx, id)
}

// mutate loads the deck, applies fn and saves it inside one transaction.
func (s *deckService) mutate(ctx context.Context, userId, id uuid.UUID, fn func(*entity.UserDeck) error) (res *dto.DeckResponse, err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	deck, err := s.find(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	if err = fn(deck); err != nil {
		if errors.Is(err, entity.ErrCardNotFound) {
			err = fmt.Errorf("%w: %w", serverutils.ErrNotFound, err)
		}
		return nil, err
	}

	now := time.Now()
	deck.UpdatedAt = &now
	if err = uow.UserDeckRepository().Update(ctx, deck); err != nil {
		return nil, err
	}
	if err = uow.Commit(); err != nil {
		return nil, err
	}
	return toDeckResponse(deck), nil
}

func (s *deckService) MarkKnown(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return s.mutate(ctx, userId, id, func(d *entity.UserDeck) error {
		return d.MarkKnown(cardId)
	})
}

func (s *deckService) MarkRevise(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return s.mutate(ctx, userId, id, func(d *entity.UserDeck) error {
		return d.MarkRevise(cardId)
	})
}

func (s *deckService) Undo(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string, req *dto.UndoCardRequest) (*dto.DeckResponse, error) {
	return s.mutate(ctx, userId, id, func(d *entity.UserDeck) error {
		return d.Undo(cardId, req.ChapterTitle)
	})
}

func (s *deckService) Promote(ctx context.Context, userId uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return s.mutate(ctx, userId, id, func(d *entity.UserDeck) error {
		return d.PromoteRevised(cardId)
	})
}

func (s *deckService) Reset(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error) {
	return s.mutate(ctx, userId, id, func(d *entity.UserDeck) error {
		d.Reset()
		return nil
	})
}

func toDeckResponse(d *entity.UserDeck) *dto.DeckResponse {
	return &dto.DeckResponse{
		Id:             d.Id,
		PdfName:        d.PdfName,
		FlashcardDecks: d.FlashcardDecks,
		KnownCards:     d.KnownCards,
		ReviseCards:    d.ReviseCards,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
