package broker

import (
	"context"
	"encoding/json"
	"testing"

	"auraverse/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFor(t *testing.T, event interface{}) kafka.Message {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: raw}
}

func TestEventHandlerRoutesOrderPlaced(t *testing.T) {
	eh := NewEventHandler()

	var got *models.OrderPlacedEvent
	eh.OnOrderPlaced(func(ctx context.Context, event *models.OrderPlacedEvent) error {
		got = event
		return nil
	})

	msg := messageFor(t, &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeOrderPlaced},
		OrderID:   "ord-1",
		UserID:    "usr-1",
		Total:     450,
		ItemCount: 2,
	})

	require.NoError(t, eh.HandleMessage(context.Background(), msg))
	require.NotNil(t, got)
	assert.Equal(t, "ord-1", got.OrderID)
	assert.Equal(t, int64(450), got.Total)
}

func TestEventHandlerRoutesDesignSold(t *testing.T) {
	eh := NewEventHandler()

	var got *models.DesignSoldEvent
	eh.OnDesignSold(func(ctx context.Context, event *models.DesignSoldEvent) error {
		got = event
		return nil
	})

	msg := messageFor(t, &models.DesignSoldEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-2", EventType: models.EventTypeDesignSold},
		DesignID:  "dsgn-1",
		BrandID:   "brand-alpha",
		Payout:    50,
	})

	require.NoError(t, eh.HandleMessage(context.Background(), msg))
	require.NotNil(t, got)
	assert.Equal(t, "dsgn-1", got.DesignID)
}

func TestEventHandlerIgnoresUnknownType(t *testing.T) {
	eh := NewEventHandler()

	called := false
	eh.OnOrderPlaced(func(ctx context.Context, event *models.OrderPlacedEvent) error {
		called = true
		return nil
	})

	msg := messageFor(t, &models.BaseEvent{EventID: "evt-3", EventType: "SOMETHING_ELSE"})
	require.NoError(t, eh.HandleMessage(context.Background(), msg))
	assert.False(t, called)
}

func TestEventHandlerRejectsMalformedPayload(t *testing.T) {
	eh := NewEventHandler()

	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
