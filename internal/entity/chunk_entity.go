package entity

import "time"

// Content type guesses attached to chunks during chunking.
const (
	ContentTypeConcept    = "concept"
	ContentTypeDefinition = "definition"
	ContentTypeFormula    = "formula"
	ContentTypeExample    = "example"
	ContentTypeSummary    = "summary"
)

type ChunkMetadata struct {
	DocumentId         string    `json:"document_id"`
	UserId             string    `json:"user_id,omitempty"`
	ChapterTitle       string    `json:"chapter_title,omitempty"`
	PageNumber         int       `json:"page_number,omitempty"`
	ChunkIndex         int       `json:"chunk_index"`
	CreatedAt          time.Time `json:"created_at"`
	TokenCountEstimate int       `json:"token_count_estimate"`
	ContentType        string    `json:"content_type"`
}

// Chunk is a contiguous span of source text. Embedding stays nil until the
// embed step runs.
type Chunk struct {
	Id        string        `json:"id"`
	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float32     `json:"embedding,omitempty"`
}
