package entity

import "time"

type RagMetadata struct {
	ChunksProcessed     int    `json:"chunks_processed"`
	EmbeddingsGenerated int    `json:"embeddings_generated"`
	RetrievalMethod     string `json:"retrieval_method"`
	ProcessingType      string `json:"processing_type"`
}

type PDFCacheMetadata struct {
	Filters          *Filters     `json:"filters,omitempty"`
	ProcessingTimeMs int64        `json:"processing_time_ms"`
	ChunkCount       int          `json:"chunk_count"`
	RagMetadata      *RagMetadata `json:"rag_metadata,omitempty"`
}

// PDFCacheEntry maps a (user, document content, filter-set) triple to the
// decks generated for it. Id is userId:contentHash:filtersKey.
type PDFCacheEntry struct {
	Id           string           `json:"id"`
	ContentHash  string           `json:"content_hash"`
	FileName     string           `json:"file_name"`
	TotalPages   int              `json:"total_pages"`
	TextLength   int              `json:"text_length"`
	ChapterDecks []ChapterDeck    `json:"chapter_decks"`
	ProcessedAt  time.Time        `json:"processed_at"`
	UserId       string           `json:"user_id"`
	FiltersKey   string           `json:"filters_key"`
	Metadata     PDFCacheMetadata `json:"metadata"`
}
