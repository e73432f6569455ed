package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// OrderBy sorts by Field. Field is interpolated, so it must be a column
// name chosen by the caller, never user input.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByDocument scopes chunks to one document of one user.
type ByDocument struct {
	DocumentId string
	UserId     string
}

func (s ByDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ? AND user_id = ?", s.DocumentId, s.UserId)
}

// ByCacheKey matches the natural key of a durable deck cache row.
type ByCacheKey struct {
	ContentHash string
	UserId      string
	FiltersKey  string
}

func (s ByCacheKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_hash = ? AND user_id = ? AND filters_key = ?", s.ContentHash, s.UserId, s.FiltersKey)
}
