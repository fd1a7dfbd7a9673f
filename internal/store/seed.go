package store

import (
	"context"
	"fmt"

	"auraverse/internal/models"
)

// seedBrand bundles a brand with its starter children.
type seedBrand struct {
	brand     models.BrandRow
	products  []models.Product
	coupons   []models.Coupon
	campaigns []models.Campaign
}

var starterCatalog = []seedBrand{
	{
		brand: models.BrandRow{
			ID: "brand-alpha", Name: "CYBER WEAR", Color: "#06b6d4",
			Description: "High-tech apparel for the digital nomad.",
			PositionX:   0, PositionY: 0, PositionZ: 0,
			WallColor: models.DefaultWallColor, FloorColor: models.DefaultFloorColor,
			LightIntensity: models.DefaultLightIntensity,
		},
		products: []models.Product{
			{
				ID: "p1", Name: "Neon Jacket", Price: 150, Stock: 50,
				Description: "Glow in the dark thermal jacket.",
				Color:       "#06b6d4", Category: "Clothing", Geometry: "box",
				ImageURL: "https://images.unsplash.com/photo-1551488852-080175d50653?auto=format&fit=crop&w=150&q=80",
			},
			{
				ID: "p2", Name: "Smart Visor", Price: 300, Stock: 25,
				Description: "HUD enabled eyewear.",
				Color:       "#ec4899", Category: "Accessory", Geometry: "torus",
				ImageURL: "https://images.unsplash.com/photo-1574315042628-48ae8e4df46f?auto=format&fit=crop&w=150&q=80",
			},
		},
	},
	{
		brand: models.BrandRow{
			ID: "brand-beta", Name: "NEO KICKS", Color: "#ec4899",
			Description: "Gravity-defying footwear.",
			PositionX:   10, PositionY: 5, PositionZ: -10,
			WallColor: models.DefaultWallColor, FloorColor: models.DefaultFloorColor,
			LightIntensity: models.DefaultLightIntensity,
		},
		products: []models.Product{
			{
				ID: "p3", Name: "Hover Boots", Price: 500, Stock: 10,
				Description: "Levitation supported boots.",
				Color:       "#facc15", Category: "Footwear", Geometry: "cone",
				ImageURL: "https://images.unsplash.com/photo-1608231387042-66d1773070a5?auto=format&fit=crop&w=150&q=80",
			},
		},
	},
	{
		brand: models.BrandRow{
			ID: "brand-gamma", Name: "QUANTUM GEAR", Color: "#8b5cf6",
			Description: "Hardware for the next century.",
			PositionX:   -10, PositionY: -5, PositionZ: -15,
			WallColor: models.DefaultWallColor, FloorColor: models.DefaultFloorColor,
			LightIntensity: models.DefaultLightIntensity,
		},
		products: []models.Product{
			{
				ID: "p4", Name: "Quantum Core", Price: 1200, Stock: 5,
				Description: "Portable processing unit.",
				Color:       "#10b981", Category: "Tech", Geometry: "sphere",
				ImageURL: "https://images.unsplash.com/photo-1518770660439-4636190af475?auto=format&fit=crop&w=150&q=80",
			},
			{
				ID: "p5", Name: "Neural Link", Price: 2500, Stock: 3,
				Description: "Direct brain-computer interface.",
				Color:       "#ef4444", Category: "Tech", Geometry: "torus",
				ImageURL: "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?auto=format&fit=crop&w=150&q=80",
			},
		},
	},
	{
		brand: models.BrandRow{
			ID: "brand-omega", Name: "OMEGA INDUSTRIES", Color: "#ffffff",
			Description: "Experimental prototype lab.",
			PositionX:   5, PositionY: 5, PositionZ: 5,
			WallColor: models.DefaultWallColor, FloorColor: models.DefaultFloorColor,
			LightIntensity: models.DefaultLightIntensity,
		},
		products: []models.Product{
			{
				ID: "p99", Name: "Prototype X", Price: 9999, Stock: 1,
				Description: "Classified.",
				Color:       "#ffffff", Category: "Prototype", Geometry: "sphere",
				ImageURL: "https://images.unsplash.com/photo-1535378437323-9528f6d92101?auto=format&fit=crop&w=150&q=80",
			},
		},
	},
}

// seed inserts the starter catalog in a single transaction.
func (s *Store) seed(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	brandStmt := s.rebind(`INSERT INTO brands
		(id, name, color, description, position_x, position_y, position_z, wall_color, floor_color, light_intensity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	productStmt := s.rebind(`INSERT INTO products
		(id, brand_id, name, price, stock, description, color, category, geometry, image_url, model_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	couponStmt := s.rebind(`INSERT INTO coupons (id, brand_id, code, discount_percentage) VALUES (?, ?, ?, ?)`)
	campaignStmt := s.rebind(`INSERT INTO campaigns (id, brand_id, name, description, active) VALUES (?, ?, ?, ?, ?)`)

	for _, sb := range starterCatalog {
		b := sb.brand
		if _, err := tx.ExecContext(ctx, brandStmt,
			b.ID, b.Name, b.Color, b.Description,
			b.PositionX, b.PositionY, b.PositionZ,
			b.WallColor, b.FloorColor, b.LightIntensity); err != nil {
			return fmt.Errorf("failed to seed brand %s: %w", b.ID, err)
		}

		for _, p := range sb.products {
			if _, err := tx.ExecContext(ctx, productStmt,
				p.ID, b.ID, p.Name, p.Price, p.Stock, p.Description,
				p.Color, p.Category, p.Geometry, p.ImageURL, p.ModelURL); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
			}
		}
		for _, c := range sb.coupons {
			if _, err := tx.ExecContext(ctx, couponStmt, c.ID, b.ID, c.Code, c.DiscountPercentage); err != nil {
				return fmt.Errorf("failed to seed coupon %s: %w", c.ID, err)
			}
		}
		for _, c := range sb.campaigns {
			if _, err := tx.ExecContext(ctx, campaignStmt, c.ID, b.ID, c.Name, c.Description, c.Active); err != nil {
				return fmt.Errorf("failed to seed campaign %s: %w", c.ID, err)
			}
		}
	}

	return tx.Commit()
}
