package service

import (
	"context"
	"encoding/json"

	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/pkg/rag/executor"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const ProgressTopic = "flashcard.progress"

// ProgressDelivery pushes a typed message to every socket of a user.
// Implemented by the websocket hub.
type ProgressDelivery interface {
	Send(userID uuid.UUID, msgType string, data interface{})
}

// NewProgressBus returns the in-process pub/sub carrying progress events.
// Publish waits for the subscriber's ack so events arrive in publish order.
func NewProgressBus(log watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		},
		log,
	)
}

type ProgressEvent struct {
	UserId   uuid.UUID `json:"user_id"`
	ClientId string    `json:"client_id,omitempty"`
	FileName string    `json:"file_name"`
	Progress float64   `json:"progress"`
	Status   string    `json:"status"`
}

type IProgressService interface {
	// Reporter returns a progress callback bound to one generation.
	Reporter(userId uuid.UUID, clientId, fileName string) executor.ProgressFunc
	Consume(ctx context.Context) error
}

type progressService struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	topic      string
	delivery   ProgressDelivery
	logger     logger.ILogger
}

func NewProgressService(
	publisher message.Publisher,
	subscriber message.Subscriber,
	delivery ProgressDelivery,
	log logger.ILogger,
) IProgressService {
	return &progressService{
		publisher:  publisher,
		subscriber: subscriber,
		topic:      ProgressTopic,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *progressService) Reporter(userId uuid.UUID, clientId, fileName string) executor.ProgressFunc {
	return func(fraction float64, status string) {
		payload, err := json.Marshal(ProgressEvent{
			UserId:   userId,
			ClientId: clientId,
			FileName: fileName,
			Progress: fraction,
			Status:   status,
		})
		if err != nil {
			return
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := s.publisher.Publish(s.topic, msg); err != nil {
			s.logger.Warn("Progress", "Failed to publish progress", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		}
	}
}

func (s *progressService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *progressService) processMessage(msg *message.Message) {
	// Malformed payloads are acked so they are not redelivered.
	defer msg.Ack()

	var event ProgressEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Warn("Progress", "Dropping malformed progress message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if s.delivery != nil {
		s.delivery.Send(event.UserId, "progress", event)
	}
}
