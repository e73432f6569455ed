package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserDeck struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	PdfName        string         `gorm:"type:text;not null"`
	FlashcardDecks datatypes.JSON `gorm:"type:jsonb"`
	KnownCards     datatypes.JSON `gorm:"type:jsonb"`
	ReviseCards    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (UserDeck) TableName() string {
	return "user_decks"
}
