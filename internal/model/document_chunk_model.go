package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	Id                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChunkKey           string          `gorm:"type:text;not null"`
	DocumentId         string          `gorm:"type:text;not null;index:idx_document_chunks_doc_user"`
	UserId             string          `gorm:"type:text;not null;index:idx_document_chunks_doc_user"`
	Content            string          `gorm:"type:text"`
	ChapterTitle       string          `gorm:"type:text"`
	PageNumber         int             `gorm:"default:0"`
	ChunkIndex         int             `gorm:"default:0"`
	TokenCountEstimate int             `gorm:"default:0"`
	ContentType        string          `gorm:"type:varchar(32)"`
	EmbeddingValue     pgvector.Vector `gorm:"type:vector(384)"`
	ChunkedAt          time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
