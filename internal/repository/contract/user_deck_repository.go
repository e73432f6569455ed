package contract

import (
	"context"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserDeckRepository interface {
	Create(ctx context.Context, deck *entity.UserDeck) error
	Update(ctx context.Context, deck *entity.UserDeck) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserDeck, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserDeck, error)
}
