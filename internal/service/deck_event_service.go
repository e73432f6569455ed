package service

import (
	"context"

	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/pkg/events"
	pktNats "ai-flashcard-be/pkg/nats"
)

type EventRecorder interface {
	EventConsumed(eventType string)
}

// DeckEventService follows deck events on the bus for logging and metrics.
type DeckEventService struct {
	subscriber *pktNats.Subscriber
	recorder   EventRecorder
	logger     logger.ILogger
}

func NewDeckEventService(sub *pktNats.Subscriber, recorder EventRecorder, log logger.ILogger) *DeckEventService {
	return &DeckEventService{subscriber: sub, recorder: recorder, logger: log}
}

// Start registers a durable consumer on events.DECK_GENERATED.
func (s *DeckEventService) Start(ctx context.Context) {
	if s.subscriber == nil {
		return
	}

	subject := pktNats.Subject(events.EventDeckGenerated)
	if err := s.subscriber.Subscribe(ctx, subject, "deck-event-worker", s.HandleEvent); err != nil {
		s.logger.Error("DeckEventService", "Failed to start deck event subscriber", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.logger.Info("DeckEventService", "Listening to "+subject, nil)
}

func (s *DeckEventService) HandleEvent(ctx context.Context, event events.Event) error {
	if s.recorder != nil {
		s.recorder.EventConsumed(event.EventType())
	}

	payload := event.Payload()
	s.logger.Info("DeckEventService", "Deck generated", map[string]interface{}{
		"user_id":        payload["user_id"],
		"file_name":      payload["file_name"],
		"card_count":     payload["card_count"],
		"from_cache":     payload["from_cache"],
		"retrieval_mode": payload["retrieval_mode"],
	})
	return nil
}
