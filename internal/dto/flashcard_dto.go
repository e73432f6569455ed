package dto

import "ai-flashcard-be/internal/entity"

type GenerateFlashcardsRequest struct {
	Text       string          `json:"text" validate:"required"`
	FileName   string          `json:"file_name" validate:"required,max=255"`
	TotalPages int             `json:"total_pages" validate:"min=0"`
	Filters    *entity.Filters `json:"filters,omitempty" validate:"omitempty"`
	// ClientId routes progress events to one of the caller's sockets.
	ClientId string `json:"client_id,omitempty"`
}

type GeneratePDFRequest struct {
	FileName string
	Data     []byte
	Filters  *entity.Filters `validate:"omitempty"`
	ClientId string
}

type ChunkCountsResponse struct {
	Chunked   int `json:"chunked"`
	Embedded  int `json:"embedded"`
	Persisted int `json:"persisted"`
	Retrieved int `json:"retrieved"`
}

type GenerationMetadataResponse struct {
	ProcessingTimeMs int64               `json:"processing_time_ms"`
	IsFromCache      bool                `json:"is_from_cache"`
	ChunkCounts      ChunkCountsResponse `json:"chunk_counts"`
	FileName         string              `json:"file_name"`
	RetrievalMode    string              `json:"retrieval_mode"`
	TotalChunks      int                 `json:"total_chunks"`
	TotalPages       int                 `json:"total_pages"`
}

type GenerateFlashcardsResponse struct {
	Flashcards   []entity.TaggedFlashcard   `json:"flashcards"`
	ChapterDecks []entity.ChapterDeck       `json:"chapter_decks"`
	Metadata     GenerationMetadataResponse `json:"metadata"`
}

type CacheStatsResponse struct {
	DeckCacheSize     int      `json:"deck_cache_size"`
	DeckCacheEntries  []string `json:"deck_cache_entries"`
	ContentCacheItems int      `json:"content_cache_items"`
}

type DocumentChunkResponse struct {
	Id           string `json:"id"`
	Content      string `json:"content"`
	ChapterTitle string `json:"chapter_title,omitempty"`
	PageNumber   int    `json:"page_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
	ContentType  string `json:"content_type"`
	Dimension    int    `json:"dimension"`
}

type ClearDocumentChunksResponse struct {
	DocumentId string `json:"document_id"`
	Deleted    int64  `json:"deleted"`
}
