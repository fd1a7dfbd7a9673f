package worker

import (
	"context"
	"time"

	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/service"
	"auraverse/internal/util"

	"go.uber.org/zap"
)

// FeedWorker re-projects the polling feeds into the cache on a fixed
// interval, the same cadence the UI polls at. Staleness up to one
// interval is the documented contract, not a bug.
type FeedWorker struct {
	feed     *service.FeedService
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewFeedWorker creates a new feed worker
func NewFeedWorker(feed *service.FeedService, interval time.Duration) *FeedWorker {
	return &FeedWorker{
		feed:     feed,
		interval: interval,
		logger:   util.GetLogger(),
		done:     make(chan struct{}),
	}
}

// Start runs the refresh loop until the context is cancelled.
func (w *FeedWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Feed worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Feed worker stopped")
			close(w.done)
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Wait blocks until the worker has exited.
func (w *FeedWorker) Wait() {
	<-w.done
}

func (w *FeedWorker) refresh(ctx context.Context) {
	if _, err := w.feed.RecentOrders(ctx); err != nil {
		w.logger.Warn("Failed to refresh recent orders feed", zap.Error(err))
	}
	if _, err := w.feed.GlobalComments(ctx); err != nil {
		w.logger.Warn("Failed to refresh global comments feed", zap.Error(err))
	}
}

// ActivityWorker consumes marketplace activity events and logs them;
// downstream consumers (analytics, notifications) hang off the same
// topic.
type ActivityWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewActivityWorker creates a new activity worker
func NewActivityWorker(consumer *broker.Consumer) *ActivityWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderPlaced(func(ctx context.Context, event *models.OrderPlacedEvent) error {
		logger.Info("Order activity",
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.Int64("total", event.Total))
		return nil
	})

	eventHandler.OnDesignSold(func(ctx context.Context, event *models.DesignSoldEvent) error {
		logger.Info("Design sale activity",
			zap.String("design_id", event.DesignID),
			zap.String("brand_id", event.BrandID),
			zap.Int64("payout", event.Payout))
		return nil
	})

	return &ActivityWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts consuming activity events.
func (w *ActivityWorker) Start(ctx context.Context) error {
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the underlying consumer.
func (w *ActivityWorker) Stop() error {
	return w.consumer.Close()
}
