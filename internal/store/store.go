package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store owns the marketplace tables. The default deployment is an
// embedded in-memory SQLite database, matching the storefront's
// in-page data layer; a PostgreSQL DSN can be supplied for server use.
type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore opens the database for the given driver ("sqlite3" or
// "postgres") and DSN.
func NewStore(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// Every pooled connection to ":memory:" would get its own
		// database, so the pool is pinned to a single connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS brands (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		description TEXT NOT NULL,
		position_x REAL NOT NULL,
		position_y REAL NOT NULL,
		position_z REAL NOT NULL,
		wall_color TEXT NOT NULL,
		floor_color TEXT NOT NULL,
		light_intensity REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		stock INTEGER NOT NULL,
		description TEXT NOT NULL,
		color TEXT NOT NULL,
		category TEXT NOT NULL,
		geometry TEXT NOT NULL,
		image_url TEXT NOT NULL,
		model_url TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		code TEXT NOT NULL,
		discount_percentage INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		active BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		tokens INTEGER NOT NULL,
		cash INTEGER NOT NULL,
		ver_email BOOLEAN NOT NULL,
		ver_phone BOOLEAN NOT NULL,
		ver_id BOOLEAN NOT NULL,
		avatar_url TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		order_date TEXT NOT NULL,
		order_total INTEGER NOT NULL,
		items_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		text TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		avatar_url TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS global_comments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		text TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		avatar_url TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_designs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		status TEXT NOT NULL,
		created_date TEXT NOT NULL
	)`,
}

// Initialize creates the tables if absent and seeds the starter catalog
// the first time it runs against an empty brands table. Safe to call
// more than once: re-initialization neither fails nor duplicates rows.
func (s *Store) Initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM brands"); err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.seed(ctx)
}

// rebind converts ?-style placeholders to the driver's bindvar form.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}
