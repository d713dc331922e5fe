package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const DefaultSchemaTimeout = 5 * time.Second

const productSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		scientific_name VARCHAR(200) NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		category VARCHAR(50) NOT NULL,
		image TEXT NOT NULL DEFAULT '/placeholder.svg',
		price DECIMAL(10,2) NOT NULL CHECK (price > 0),
		original_price DECIMAL(10,2),
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		in_stock BOOLEAN NOT NULL DEFAULT FALSE,
		care_level VARCHAR(20) NOT NULL DEFAULT 'Easy',
		light_requirement VARCHAR(40) NOT NULL DEFAULT 'Bright Indirect Light',
		water_frequency VARCHAR(20) NOT NULL DEFAULT 'Weekly',
		size VARCHAR(10) NOT NULL DEFAULT 'Medium',
		features TEXT[] NOT NULL DEFAULT '{}',
		is_popular BOOLEAN NOT NULL DEFAULT FALSE,
		is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
		rating DECIMAL(2,1) NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);
	CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC);
	`

func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, productSchema); err != nil {
		return fmt.Errorf("failed to execute schema creation: %w", err)
	}

	return nil
}
