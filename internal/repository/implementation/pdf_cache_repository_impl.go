package implementation

import (
	"context"
	"errors"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/mapper"
	"ai-flashcard-be/internal/model"
	"ai-flashcard-be/internal/repository/contract"
	"ai-flashcard-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PdfCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PdfCacheMapper
}

func NewPdfCacheRepository(db *gorm.DB) contract.PdfCacheRepository {
	return &PdfCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewPdfCacheMapper(),
	}
}

func (r *PdfCacheRepositoryImpl) Upsert(ctx context.Context, entry *entity.PDFCacheEntry) error {
	m, err := r.mapper.ToModel(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(m).Error
}

func (r *PdfCacheRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.PdfCache{}, "id = ?", id).Error
}

func (r *PdfCacheRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PDFCacheEntry, error) {
	var m model.PdfCache
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}
