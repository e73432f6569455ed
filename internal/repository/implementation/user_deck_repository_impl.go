package implementation

import (
	"context"
	"errors"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/mapper"
	"ai-flashcard-be/internal/model"
	"ai-flashcard-be/internal/repository/contract"
	"ai-flashcard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDeckRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserDeckMapper
}

func NewUserDeckRepository(db *gorm.DB) contract.UserDeckRepository {
	return &UserDeckRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserDeckMapper(),
	}
}

func (r *UserDeckRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserDeckRepositoryImpl) Create(ctx context.Context, deck *entity.UserDeck) error {
	m, err := r.mapper.ToModel(deck)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*deck = *created
	return nil
}

func (r *UserDeckRepositoryImpl) Update(ctx context.Context, deck *entity.UserDeck) error {
	m, err := r.mapper.ToModel(deck)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	updated, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*deck = *updated
	return nil
}

func (r *UserDeckRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserDeck{}, id).Error
}

func (r *UserDeckRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserDeck, error) {
	var m model.UserDeck
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *UserDeckRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserDeck, error) {
	var models []*model.UserDeck
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	decks := make([]*entity.UserDeck, 0, len(models))
	for _, m := range models {
		d, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}
