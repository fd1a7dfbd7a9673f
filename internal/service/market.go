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

// MarketService handles the creator design marketplace.
type MarketService struct {
	store     *store.Store
	cfg       config.MarketConfig
	publisher broker.Publisher
	logger    *zap.Logger
}

// NewMarketService creates a new market service
func NewMarketService(st *store.Store, cfg config.MarketConfig, publisher broker.Publisher) *MarketService {
	return &MarketService{
		store:     st,
		cfg:       cfg,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// PublishDesignRequest carries a creator's new design listing.
type PublishDesignRequest struct {
	UserID      string              `json:"userId" binding:"required"`
	Username    string              `json:"username" binding:"required"`
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       int64               `json:"price"`
	Config      models.DesignConfig `json:"config" binding:"required"`
}

// PublishDesign lists a design FOR_SALE and returns its id.
func (ms *MarketService) PublishDesign(ctx context.Context, req *PublishDesignRequest) (string, error) {
	id, err := ms.store.PublishDesign(ctx, req.UserID, util.Sanitize(req.Username),
		util.Sanitize(req.Name), util.Sanitize(req.Description), req.Price, req.Config)
	if err != nil {
		return "", err
	}

	util.DesignsPublishedTotal.Inc()
	ms.logger.Info("Design published",
		zap.String("design_id", id),
		zap.String("user_id", req.UserID),
		zap.Int64("price", req.Price))

	event := &models.DesignPublishedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDesignPublished,
			Timestamp: time.Now(),
		},
		DesignID: id,
		UserID:   req.UserID,
		Price:    req.Price,
	}
	if err := ms.publisher.PublishDesignPublished(ctx, event); err != nil {
		ms.logger.Error("Failed to publish DesignPublished event", zap.Error(err))
	}
	return id, nil
}

// ListDesignsForSale returns designs still on the market.
func (ms *MarketService) ListDesignsForSale(ctx context.Context) ([]models.UserDesign, error) {
	return ms.store.ListDesignsForSale(ctx)
}

// PurchaseDesign executes a brand's purchase of a design: the creator
// is paid the asking price, the design becomes a catalog product at the
// configured markup, and the listing flips to SOLD.
func (ms *MarketService) PurchaseDesign(ctx context.Context, brandID, designID string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "MarketService.PurchaseDesign")
	defer span.End()

	design, err := ms.store.GetDesignByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	product, err := ms.store.PurchaseDesign(ctx, brandID, designID, ms.cfg.DesignMarkup, ms.cfg.DesignStock)
	if err != nil {
		return nil, err
	}

	util.DesignsSoldTotal.Inc()
	ms.logger.Info("Design sold",
		zap.String("design_id", designID),
		zap.String("brand_id", brandID),
		zap.String("product_id", product.ID),
		zap.Int64("payout", design.Price))

	event := &models.DesignSoldEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDesignSold,
			Timestamp: time.Now(),
		},
		DesignID:  designID,
		BrandID:   brandID,
		CreatorID: design.UserID,
		ProductID: product.ID,
		Payout:    design.Price,
	}
	if err := ms.publisher.PublishDesignSold(ctx, event); err != nil {
		ms.logger.Error("Failed to publish DesignSold event", zap.Error(err))
	}

	return product, nil
}
