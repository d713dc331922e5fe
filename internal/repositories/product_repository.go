package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils"
	"github.com/lib/pq"
)

// ErrProductNotFound is returned when no row matches the requested id.
var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) (*models.DeletedProduct, error)
	ListProducts(ctx context.Context, filter models.ListProductsFilter) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, scientific_name, description, category, image, price, original_price,
		stock_quantity, in_stock, care_level, light_requirement, water_frequency, size, features,
		is_popular, is_on_sale, rating, review_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	var originalPrice sql.NullFloat64

	err := row.Scan(&product.ID, &product.Name, &product.ScientificName, &product.Description, &product.Category,
		&product.Image, &product.Price, &originalPrice, &product.StockQuantity, &product.InStock, &product.CareLevel,
		&product.LightRequirement, &product.WaterFrequency, &product.Size, pq.Array(&product.Features),
		&product.IsPopular, &product.IsOnSale, &product.Rating, &product.ReviewCount, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if originalPrice.Valid {
		v := originalPrice.Float64
		product.OriginalPrice = &v
	}
	if product.Features == nil {
		product.Features = []string{}
	}

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (name, scientific_name, description, category, image, price, original_price, stock_quantity, in_stock, care_level, light_requirement, water_frequency, size, features, is_popular, is_on_sale, rating, review_count)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			  RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.Name, product.ScientificName, product.Description, product.Category,
		product.Image, product.Price, product.OriginalPrice, product.StockQuantity, product.InStock, product.CareLevel,
		product.LightRequirement, product.WaterFrequency, product.Size, pq.Array(product.Features),
		product.IsPopular, product.IsOnSale, product.Rating, product.ReviewCount).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// UpdateProduct rewrites every editable column from product. in_stock is
// taken as given.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, scientific_name = $2, description = $3, category = $4, image = $5, price = $6,
		original_price = $7, stock_quantity = $8, in_stock = $9, care_level = $10, light_requirement = $11,
		water_frequency = $12, size = $13, features = $14, is_popular = $15, is_on_sale = $16, updated_at = NOW()
		WHERE id = $17
		RETURNING rating, review_count, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.Name, product.ScientificName, product.Description, product.Category,
		product.Image, product.Price, product.OriginalPrice, product.StockQuantity, product.InStock, product.CareLevel,
		product.LightRequirement, product.WaterFrequency, product.Size, pq.Array(product.Features),
		product.IsPopular, product.IsOnSale, product.ID).
		Scan(&product.Rating, &product.ReviewCount, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("updating product: %w", err)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) (*models.DeletedProduct, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	deleted := &models.DeletedProduct{}

	err := r.DB.QueryRowContext(dbCtx, `DELETE FROM products WHERE id = $1 RETURNING id, name`, id).Scan(&deleted.ID, &deleted.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("deleting product: %w", err)
	}

	return deleted, nil
}

// ListProducts applies the equality filters joined by AND, newest first.
func (r *productRepository) ListProducts(ctx context.Context, filter models.ListProductsFilter) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any

	if filter.Category != nil {
		args = append(args, *filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.InStock != nil {
		args = append(args, *filter.InStock)
		conditions = append(conditions, fmt.Sprintf("in_stock = $%d", len(args)))
	}
	if filter.Popular != nil {
		args = append(args, *filter.Popular)
		conditions = append(conditions, fmt.Sprintf("is_popular = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
