package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auraverse/internal/models"
)

// ListBrands assembles every brand with its products, coupons and
// campaigns grouped by foreign key. A brand with no children comes back
// with empty (non-nil) slices. Pod config defaults are applied to
// empty or zero columns.
func (s *Store) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.BrandRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM brands ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	brands := make([]models.Brand, 0, len(rows))
	for _, row := range rows {
		brand := assembleBrand(row)

		if err := s.db.SelectContext(ctx, &brand.Products,
			s.rebind("SELECT * FROM products WHERE brand_id = ? ORDER BY id"), row.ID); err != nil {
			return nil, fmt.Errorf("failed to load products for brand %s: %w", row.ID, err)
		}
		if err := s.db.SelectContext(ctx, &brand.Coupons,
			s.rebind("SELECT * FROM coupons WHERE brand_id = ? ORDER BY id"), row.ID); err != nil {
			return nil, fmt.Errorf("failed to load coupons for brand %s: %w", row.ID, err)
		}
		if err := s.db.SelectContext(ctx, &brand.Campaigns,
			s.rebind("SELECT * FROM campaigns WHERE brand_id = ? ORDER BY id"), row.ID); err != nil {
			return nil, fmt.Errorf("failed to load campaigns for brand %s: %w", row.ID, err)
		}

		if brand.Products == nil {
			brand.Products = []models.Product{}
		}
		if brand.Coupons == nil {
			brand.Coupons = []models.Coupon{}
		}
		if brand.Campaigns == nil {
			brand.Campaigns = []models.Campaign{}
		}

		brands = append(brands, brand)
	}

	return brands, nil
}

func assembleBrand(row models.BrandRow) models.Brand {
	pod := models.PodConfig{
		WallColor:      row.WallColor,
		FloorColor:     row.FloorColor,
		LightIntensity: row.LightIntensity,
	}
	if pod.WallColor == "" {
		pod.WallColor = models.DefaultWallColor
	}
	if pod.FloorColor == "" {
		pod.FloorColor = models.DefaultFloorColor
	}
	if pod.LightIntensity == 0 {
		pod.LightIntensity = models.DefaultLightIntensity
	}

	return models.Brand{
		ID:          row.ID,
		Name:        row.Name,
		Color:       row.Color,
		Description: row.Description,
		Position:    [3]float64{row.PositionX, row.PositionY, row.PositionZ},
		PodConfig:   pod,
	}
}

// BrandExists reports whether a brand row is present.
func (s *Store) BrandExists(ctx context.Context, brandID string) (bool, error) {
	var id string
	err := s.db.GetContext(ctx, &id, s.rebind("SELECT id FROM brands WHERE id = ?"), brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddProduct inserts a product into a brand's catalog.
func (s *Store) AddProduct(ctx context.Context, brandID string, p models.Product) error {
	exists, err := s.BrandExists(ctx, brandID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBrandNotFound
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO products
		(id, brand_id, name, price, stock, description, color, category, geometry, image_url, model_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, brandID, p.Name, p.Price, p.Stock, p.Description,
		p.Color, p.Category, p.Geometry, p.ImageURL, p.ModelURL)
	if err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}
	return nil
}

// AddCoupon inserts a coupon for a brand.
func (s *Store) AddCoupon(ctx context.Context, brandID string, c models.Coupon) error {
	exists, err := s.BrandExists(ctx, brandID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBrandNotFound
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind("INSERT INTO coupons (id, brand_id, code, discount_percentage) VALUES (?, ?, ?, ?)"),
		c.ID, brandID, c.Code, c.DiscountPercentage)
	if err != nil {
		return fmt.Errorf("failed to add coupon: %w", err)
	}
	return nil
}

// AddCampaign inserts a campaign for a brand.
func (s *Store) AddCampaign(ctx context.Context, brandID string, c models.Campaign) error {
	exists, err := s.BrandExists(ctx, brandID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBrandNotFound
	}

	_, err = s.db.ExecContext(ctx,
		s.rebind("INSERT INTO campaigns (id, brand_id, name, description, active) VALUES (?, ?, ?, ?, ?)"),
		c.ID, brandID, c.Name, c.Description, c.Active)
	if err != nil {
		return fmt.Errorf("failed to add campaign: %w", err)
	}
	return nil
}

// UpdatePodConfig updates a brand's visual pod configuration.
func (s *Store) UpdatePodConfig(ctx context.Context, brandID string, cfg models.PodConfig) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE brands SET wall_color = ?, floor_color = ?, light_intensity = ? WHERE id = ?"),
		cfg.WallColor, cfg.FloorColor, cfg.LightIntensity, brandID)
	if err != nil {
		return fmt.Errorf("failed to update pod config: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// GetProductByID retrieves a product by ID.
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, s.rebind("SELECT * FROM products WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
