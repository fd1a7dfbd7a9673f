package service

import (
	"context"
	"time"

	"auraverse/config"
	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/store"
	"auraverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommerceService handles checkout.
type CommerceService struct {
	store     *store.Store
	cfg       config.MarketConfig
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewCommerceService creates a new commerce service
func NewCommerceService(st *store.Store, cfg config.MarketConfig, publisher broker.Publisher) *CommerceService {
	return &CommerceService{
		store:     st,
		cfg:       cfg,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CheckoutRequest is the cart handed over by the UI. Items carry the
// full product snapshots the UI displayed; they are frozen into the
// order as-is.
type CheckoutRequest struct {
	Items []models.Product `json:"items" binding:"required,min=1"`
	Total int64            `json:"total"`
}

// Checkout runs the purchase transaction and publishes the activity
// event. The token balance is re-validated inside the transaction; the
// caller's earlier check is not trusted.
func (cs *CommerceService) Checkout(ctx context.Context, userID string, req *CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CommerceService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	order, err := cs.store.Checkout(ctx, userID, req.Items, req.Total, cs.cfg.AllowOversell)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.CheckoutsTotal.Inc()
	cs.logger.Info("Checkout completed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		UserID:    userID,
		Total:     order.Total,
		ItemCount: len(order.Items),
	}
	if err := cs.publisher.PublishOrderPlaced(ctx, event); err != nil {
		cs.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order, nil
}
