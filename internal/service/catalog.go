package service

import (
	"context"
	"fmt"

	"auraverse/internal/models"
	"auraverse/internal/store"
	"auraverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles brand catalog management and the brand read
// model.
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ListBrands returns every brand with its nested catalog.
func (cs *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return cs.store.ListBrands(ctx)
}

// AddProduct sanitizes free-text fields and inserts the product into
// the brand's catalog, generating an id when the caller supplied none.
func (cs *CatalogService) AddProduct(ctx context.Context, brandID string, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("prod-%s", uuid.New().String()[:8])
	}
	if p.Price < 0 || p.Stock < 0 {
		return nil, store.ErrInvalidAmount
	}
	p.Name = util.Sanitize(p.Name)
	p.Description = util.Sanitize(p.Description)

	if err := cs.store.AddProduct(ctx, brandID, p); err != nil {
		return nil, err
	}

	cs.logger.Info("Product added",
		zap.String("brand_id", brandID),
		zap.String("product_id", p.ID))
	return &p, nil
}

// AddCoupon inserts a coupon with a sanitized code.
func (cs *CatalogService) AddCoupon(ctx context.Context, brandID string, c models.Coupon) (*models.Coupon, error) {
	if c.ID == "" {
		c.ID = fmt.Sprintf("cpn-%s", uuid.New().String()[:8])
	}
	c.Code = util.Sanitize(c.Code)

	if err := cs.store.AddCoupon(ctx, brandID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddCampaign inserts a campaign with sanitized text.
func (cs *CatalogService) AddCampaign(ctx context.Context, brandID string, c models.Campaign) (*models.Campaign, error) {
	if c.ID == "" {
		c.ID = fmt.Sprintf("cmp-%s", uuid.New().String()[:8])
	}
	c.Name = util.Sanitize(c.Name)
	c.Description = util.Sanitize(c.Description)

	if err := cs.store.AddCampaign(ctx, brandID, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdatePodConfig updates a brand's pavilion visuals.
func (cs *CatalogService) UpdatePodConfig(ctx context.Context, brandID string, cfg models.PodConfig) error {
	return cs.store.UpdatePodConfig(ctx, brandID, cfg)
}
