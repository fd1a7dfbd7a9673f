package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"auraverse/internal/models"
)

type designRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Username    string `db:"username"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
	ConfigJSON  string `db:"config_json"`
	Status      string `db:"status"`
	CreatedDate string `db:"created_date"`
}

func (r designRow) assemble() (models.UserDesign, error) {
	var cfg models.DesignConfig
	if err := json.Unmarshal([]byte(r.ConfigJSON), &cfg); err != nil {
		return models.UserDesign{}, fmt.Errorf("corrupt config on design %s: %w", r.ID, err)
	}
	return models.UserDesign{
		ID:          r.ID,
		UserID:      r.UserID,
		Username:    r.Username,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Config:      cfg,
		Status:      r.Status,
		CreatedDate: r.CreatedDate,
	}, nil
}

// PublishDesign inserts a creator design with status FOR_SALE and
// returns its id.
func (s *Store) PublishDesign(ctx context.Context, userID, username, name, description string, price int64, cfg models.DesignConfig) (string, error) {
	if price < 0 {
		return "", ErrInvalidAmount
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode design config: %w", err)
	}

	id := newDesignID()
	createdDate := time.Now().Format("2006-01-02")

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO user_designs
		(id, user_id, username, name, description, price, config_json, status, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, userID, username, name, description, price, string(configJSON),
		models.DesignStatusForSale, createdDate)
	if err != nil {
		return "", fmt.Errorf("failed to publish design: %w", err)
	}
	return id, nil
}

// ListDesignsForSale returns designs still FOR_SALE; sold designs are
// excluded.
func (s *Store) ListDesignsForSale(ctx context.Context) ([]models.UserDesign, error) {
	var rows []designRow
	if err := s.db.SelectContext(ctx, &rows,
		s.rebind("SELECT * FROM user_designs WHERE status = ? ORDER BY created_date DESC, id"),
		models.DesignStatusForSale); err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	designs := make([]models.UserDesign, 0, len(rows))
	for _, row := range rows {
		d, err := row.assemble()
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, nil
}

// GetDesignByID retrieves a single design.
func (s *Store) GetDesignByID(ctx context.Context, id string) (*models.UserDesign, error) {
	var row designRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM user_designs WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDesignNotFound
	}
	if err != nil {
		return nil, err
	}
	d, err := row.assemble()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// PurchaseDesign executes a brand's purchase of a creator design as one
// transaction: the design must exist and still be FOR_SALE, the brand
// must exist, the design's config is cloned into a new catalog product
// priced at floor(price*markup), the asking price is credited to the
// creator's token balance, and the design flips to SOLD. The catalog
// insert runs before the payout so a failed insert never leaves a paid
// creator behind. The payout is platform-subsidized; brands hold no
// wallet in this data model.
func (s *Store) PurchaseDesign(ctx context.Context, brandID, designID string, markup float64, productStock int64) (*models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase transaction: %w", err)
	}
	defer tx.Rollback()

	var row designRow
	err = tx.GetContext(ctx, &row, s.rebind("SELECT * FROM user_designs WHERE id = ?"), designID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDesignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load design: %w", err)
	}
	if row.Status != models.DesignStatusForSale {
		return nil, ErrDesignNotForSale
	}

	design, err := row.assemble()
	if err != nil {
		return nil, err
	}

	var brandCheck string
	err = tx.GetContext(ctx, &brandCheck, s.rebind("SELECT id FROM brands WHERE id = ?"), brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	product := models.Product{
		ID:          fmt.Sprintf("prod-%s", design.ID),
		BrandID:     brandID,
		Name:        design.Name,
		Price:       int64(math.Floor(float64(design.Price) * markup)),
		Stock:       productStock,
		Description: fmt.Sprintf("Designer: %s. %s", design.Username, design.Description),
		Color:       design.Config.BaseColor,
		Category:    "Community Design",
		Geometry:    design.Config.Geometry,
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO products
		(id, brand_id, name, price, stock, description, color, category, geometry, image_url, model_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		product.ID, product.BrandID, product.Name, product.Price, product.Stock,
		product.Description, product.Color, product.Category, product.Geometry,
		product.ImageURL, product.ModelURL); err != nil {
		return nil, fmt.Errorf("failed to add design product to catalog: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		s.rebind("UPDATE users SET tokens = tokens + ? WHERE id = ?"), design.Price, design.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to pay creator: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Creator row missing under a live design is corruption.
		return nil, fmt.Errorf("creator %s not found for design %s", design.UserID, design.ID)
	}

	// The flip only matches a FOR_SALE row, so a design sells at most
	// once even when two brands race for it.
	flip, err := tx.ExecContext(ctx,
		s.rebind("UPDATE user_designs SET status = ? WHERE id = ? AND status = ?"),
		models.DesignStatusSold, designID, models.DesignStatusForSale)
	if err != nil {
		return nil, fmt.Errorf("failed to mark design sold: %w", err)
	}
	flipped, err := flip.RowsAffected()
	if err != nil {
		return nil, err
	}
	if flipped == 0 {
		return nil, ErrDesignNotForSale
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &product, nil
}
