package nats

import (
	"testing"
	"time"

	"ai-flashcard-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("type comes from the subject without headers", func(t *testing.T) {
		event, err := decodeEvent("events.DECK_GENERATED", nil, []byte(`{"card_count":3,"occurred_at":"2024-05-01T08:00:00Z"}`))
		require.NoError(t, err)

		assert.Equal(t, "DECK_GENERATED", event.EventType())
		assert.Equal(t, float64(3), event.Payload()["card_count"])
		assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), event.Timestamp())
	})

	t.Run("headers win over subject and payload", func(t *testing.T) {
		header := nats.Header{}
		header.Set(headerEventType, "CUSTOM")
		header.Set(headerOccurredAt, "2024-06-01T10:00:00.5Z")

		event, err := decodeEvent("events.DECK_GENERATED", header, []byte(`{"occurred_at":"2024-05-01T08:00:00Z"}`))
		require.NoError(t, err)

		assert.Equal(t, "CUSTOM", event.EventType())
		assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 500_000_000, time.UTC), event.Timestamp())
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := decodeEvent("events.DECK_GENERATED", nil, []byte(`not json`))
		assert.Error(t, err)
	})
}

func TestEncodeEventRoundTrip(t *testing.T) {
	event := events.NewDeckGeneratedEvent(events.DeckGenerated{
		UserId:    "u1",
		FileName:  "bio.pdf",
		CardCount: 12,
	})

	msg, err := encodeEvent(event)
	require.NoError(t, err)
	assert.Equal(t, "events.DECK_GENERATED", msg.Subject)

	decoded, err := decodeEvent(msg.Subject, msg.Header, msg.Data)
	require.NoError(t, err)
	assert.Equal(t, events.EventDeckGenerated, decoded.EventType())
	assert.Equal(t, "bio.pdf", decoded.Payload()["file_name"])
	assert.Equal(t, float64(12), decoded.Payload()["card_count"])
	assert.WithinDuration(t, event.Timestamp(), decoded.Timestamp(), time.Millisecond)
}
