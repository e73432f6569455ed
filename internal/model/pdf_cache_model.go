package model

import (
	"time"

	"gorm.io/datatypes"
)

// PdfCache rows are keyed by userId:contentHash:filtersKey and replaced
// wholesale on every store.
type PdfCache struct {
	Id           string         `gorm:"type:text;primaryKey"`
	ContentHash  string         `gorm:"type:varchar(32);not null;index:idx_pdf_caches_lookup"`
	UserId       string         `gorm:"type:text;not null;index:idx_pdf_caches_lookup"`
	FiltersKey   string         `gorm:"type:text;not null;index:idx_pdf_caches_lookup"`
	FileName     string         `gorm:"type:text"`
	TotalPages   int            `gorm:"default:0"`
	TextLength   int            `gorm:"default:0"`
	ChapterDecks datatypes.JSON `gorm:"type:jsonb"`
	Metadata     datatypes.JSON `gorm:"type:jsonb"`
	ProcessedAt  time.Time      `gorm:"not null;index"`
}

func (PdfCache) TableName() string {
	return "pdf_caches"
}
