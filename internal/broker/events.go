package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"auraverse/internal/models"
	"auraverse/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is the activity event sink. The marketplace works without a
// broker, so services take this interface and the wiring decides between
// the Kafka publisher and the no-op.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishFundsTransferred(ctx context.Context, event *models.FundsTransferredEvent) error
	PublishFundsDeposited(ctx context.Context, event *models.FundsDepositedEvent) error
	PublishDesignPublished(ctx context.Context, event *models.DesignPublishedEvent) error
	PublishDesignSold(ctx context.Context, event *models.DesignSoldEvent) error
	PublishCommentPosted(ctx context.Context, event *models.CommentPostedEvent) error
}

// EventPublisher publishes activity events through a Kafka producer.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("order-%s", event.OrderID), event)
}

func (ep *EventPublisher) PublishFundsTransferred(ctx context.Context, event *models.FundsTransferredEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("user-%s", event.SenderID), event)
}

func (ep *EventPublisher) PublishFundsDeposited(ctx context.Context, event *models.FundsDepositedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("user-%s", event.UserID), event)
}

func (ep *EventPublisher) PublishDesignPublished(ctx context.Context, event *models.DesignPublishedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("design-%s", event.DesignID), event)
}

func (ep *EventPublisher) PublishDesignSold(ctx context.Context, event *models.DesignSoldEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("design-%s", event.DesignID), event)
}

func (ep *EventPublisher) PublishCommentPosted(ctx context.Context, event *models.CommentPostedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("comment-%s", event.CommentID), event)
}

// NoopPublisher drops every event. Used when no broker is configured
// and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, *models.OrderPlacedEvent) error { return nil }
func (NoopPublisher) PublishFundsTransferred(context.Context, *models.FundsTransferredEvent) error {
	return nil
}
func (NoopPublisher) PublishFundsDeposited(context.Context, *models.FundsDepositedEvent) error {
	return nil
}
func (NoopPublisher) PublishDesignPublished(context.Context, *models.DesignPublishedEvent) error {
	return nil
}
func (NoopPublisher) PublishDesignSold(context.Context, *models.DesignSoldEvent) error { return nil }
func (NoopPublisher) PublishCommentPosted(context.Context, *models.CommentPostedEvent) error {
	return nil
}

// EventHandler routes consumed activity events to registered callbacks.
type EventHandler struct {
	onOrderPlaced func(context.Context, *models.OrderPlacedEvent) error
	onDesignSold  func(context.Context, *models.DesignSoldEvent) error
	logger        *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnDesignSold registers a handler for DesignSold events
func (eh *EventHandler) OnDesignSold(handler func(context.Context, *models.DesignSoldEvent) error) {
	eh.onDesignSold = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeDesignSold:
		if eh.onDesignSold != nil {
			var event models.DesignSoldEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DesignSold event: %w", err)
			}
			return eh.onDesignSold(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
