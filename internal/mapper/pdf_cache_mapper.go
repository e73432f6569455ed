package mapper

import (
	"encoding/json"
	"fmt"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/model"

	"gorm.io/datatypes"
)

type PdfCacheMapper struct{}

func NewPdfCacheMapper() *PdfCacheMapper {
	return &PdfCacheMapper{}
}

func (m *PdfCacheMapper) ToEntity(c *model.PdfCache) (*entity.PDFCacheEntry, error) {
	if c == nil {
		return nil, nil
	}

	entry := &entity.PDFCacheEntry{
		Id:          c.Id,
		ContentHash: c.ContentHash,
		FileName:    c.FileName,
		TotalPages:  c.TotalPages,
		TextLength:  c.TextLength,
		ProcessedAt: c.ProcessedAt,
		UserId:      c.UserId,
		FiltersKey:  c.FiltersKey,
	}
	if len(c.ChapterDecks) > 0 {
		if err := json.Unmarshal(c.ChapterDecks, &entry.ChapterDecks); err != nil {
			return nil, fmt.Errorf("decode chapter decks: %w", err)
		}
	}
	if len(c.Metadata) > 0 {
		if err := json.Unmarshal(c.Metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return entry, nil
}

func (m *PdfCacheMapper) ToModel(e *entity.PDFCacheEntry) (*model.PdfCache, error) {
	if e == nil {
		return nil, nil
	}

	decks, err := json.Marshal(e.ChapterDecks)
	if err != nil {
		return nil, fmt.Errorf("encode chapter decks: %w", err)
	}
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	return &model.PdfCache{
		Id:           e.Id,
		ContentHash:  e.ContentHash,
		UserId:       e.UserId,
		FiltersKey:   e.FiltersKey,
		FileName:     e.FileName,
		TotalPages:   e.TotalPages,
		TextLength:   e.TextLength,
		ChapterDecks: datatypes.JSON(decks),
		Metadata:     datatypes.JSON(meta),
		ProcessedAt:  e.ProcessedAt,
	}, nil
}
