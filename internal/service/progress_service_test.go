package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-flashcard-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (d *recordingDelivery) Send(userID uuid.UUID, msgType string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := data.(ProgressEvent); ok && msgType == "progress" {
		d.events = append(d.events, e)
	}
}

func (d *recordingDelivery) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

func TestProgressService_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := NewProgressBus(watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	svc := NewProgressService(pubSub, pubSub, delivery, logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	userId := uuid.New()
	report := svc.Reporter(userId, "tab-1", "notes.pdf")
	report(0.1, "Checking cache for existing PDF...")
	report(1.0, "RAG flashcard generation complete!")

	require.Eventually(t, func() bool { return delivery.len() == 2 }, time.Second, 10*time.Millisecond)

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	assert.Equal(t, userId, delivery.events[0].UserId)
	assert.Equal(t, "tab-1", delivery.events[0].ClientId)
	assert.Equal(t, 1.0, delivery.events[1].Progress)
}

func TestProgressService_DeliversInPublishOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := NewProgressBus(watermill.NopLogger{})
	defer pubSub.Close()

	delivery := &recordingDelivery{}
	svc := NewProgressService(pubSub, pubSub, delivery, logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	milestones := []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.63, 0.66, 0.87, 0.9, 0.95, 1.0}
	report := svc.Reporter(uuid.New(), "tab-1", "notes.pdf")
	for _, m := range milestones {
		report(m, "step")
	}

	require.Eventually(t, func() bool { return delivery.len() == len(milestones) }, 2*time.Second, 10*time.Millisecond)

	delivery.mu.Lock()
	defer delivery.mu.Unlock()
	got := make([]float64, 0, len(delivery.events))
	for _, e := range delivery.events {
		got = append(got, e.Progress)
	}
	assert.Equal(t, milestones, got)
}
