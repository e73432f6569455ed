package events

import "time"

const EventDeckGenerated = "DECK_GENERATED"

type DeckGenerated struct {
	UserId           string
	FileName         string
	ContentHash      string
	CardCount        int
	ChapterCount     int
	FromCache        bool
	RetrievalMode    string
	ProcessingTimeMs int64
}

func NewDeckGeneratedEvent(d DeckGenerated) BaseEvent {
	return BaseEvent{
		Type: EventDeckGenerated,
		Data: map[string]interface{}{
			"user_id":            d.UserId,
			"file_name":          d.FileName,
			"content_hash":       d.ContentHash,
			"card_count":         d.CardCount,
			"chapter_count":      d.ChapterCount,
			"from_cache":         d.FromCache,
			"retrieval_mode":     d.RetrievalMode,
			"processing_time_ms": d.ProcessingTimeMs,
			"occurred_at":        time.Now().UTC().Format(time.RFC3339),
		},
		OccurredAt: time.Now(),
	}
}
