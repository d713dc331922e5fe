package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/plant-storefront/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "name", "scientific_name", "description", "category", "image", "price", "original_price",
	"stock_quantity", "in_stock", "care_level", "light_requirement", "water_frequency", "size", "features",
	"is_popular", "is_on_sale", "rating", "review_count", "created_at", "updated_at",
}

func newTestPlant() *models.Product {
	originalPrice := 39.99

	return &models.Product{
		Name:             "Monstera Deliciosa",
		ScientificName:   "Monstera deliciosa",
		Description:      "Split-leaf philodendron",
		Category:         models.CategoryIndoor,
		Image:            models.DefaultImage,
		Price:            29.99,
		OriginalPrice:    &originalPrice,
		StockQuantity:    10,
		InStock:          true,
		CareLevel:        models.CareModerate,
		LightRequirement: models.LightBrightIndirect,
		WaterFrequency:   models.WaterWeekly,
		Size:             models.SizeLarge,
		Features:         []string{"Humidity: High", "Toxicity: Toxic to pets"},
		IsPopular:        true,
	}
}

func addPlantRow(rows *sqlmock.Rows, id int64, p *models.Product, now time.Time) *sqlmock.Rows {
	var originalPrice any
	if p.OriginalPrice != nil {
		originalPrice = *p.OriginalPrice
	}

	features, _ := pq.Array(p.Features).Value()

	return rows.AddRow(id, p.Name, p.ScientificName, p.Description, string(p.Category), p.Image, p.Price, originalPrice,
		p.StockQuantity, p.InStock, string(p.CareLevel), string(p.LightRequirement), string(p.WaterFrequency), string(p.Size),
		features, p.IsPopular, p.IsOnSale, p.Rating, p.ReviewCount, now, now)
}

func TestNewProductRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	assert.NotNil(t, repo, "NewProductRepo should return a non-nil repository")
}

func TestProductRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	ctx := t.Context()

	insertSQL := regexp.QuoteMeta(`INSERT INTO products (name, scientific_name, description, category, image, price, original_price, stock_quantity, in_stock, care_level, light_requirement, water_frequency, size, features, is_popular, is_on_sale, rating, review_count)`)
	selectByIDSQL := `SELECT id, name, .+ FROM products WHERE id = \$1`
	updateSQL := `UPDATE products SET name = \$1, .+ WHERE id = \$17`
	deleteSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1 RETURNING id, name`)

	t.Run("CreateProduct", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			product := newTestPlant()
			now := time.Now()

			mock.ExpectQuery(insertSQL).
				WithArgs(product.Name, product.ScientificName, product.Description, product.Category, product.Image,
					product.Price, *product.OriginalPrice, product.StockQuantity, product.InStock, product.CareLevel,
					product.LightRequirement, product.WaterFrequency, product.Size, pq.Array(product.Features),
					product.IsPopular, product.IsOnSale, 0.0, 0).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, int64(7), product.ID)
			assert.WithinDuration(t, now, product.CreatedAt, time.Second)
			assert.WithinDuration(t, now, product.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Nil Original Price Is Stored As NULL", func(t *testing.T) {
			// Arrange
			product := newTestPlant()
			product.OriginalPrice = nil
			now := time.Now()

			mock.ExpectQuery(insertSQL).
				WithArgs(product.Name, product.ScientificName, product.Description, product.Category, product.Image,
					product.Price, nil, product.StockQuantity, product.InStock, product.CareLevel,
					product.LightRequirement, product.WaterFrequency, product.Size, pq.Array(product.Features),
					product.IsPopular, product.IsOnSale, 0.0, 0).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(8), now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, int64(8), product.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Error", func(t *testing.T) {
			// Arrange
			product := newTestPlant()
			dbError := errors.New("database insertion error")

			mock.ExpectQuery(insertSQL).WillReturnError(dbError)

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, dbError)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetProductByID", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			expected := newTestPlant()
			now := time.Now()
			rows := addPlantRow(sqlmock.NewRows(productRowColumns), 3, expected, now)

			mock.ExpectQuery(selectByIDSQL).WithArgs(int64(3)).WillReturnRows(rows)

			// Act
			product, err := repo.GetProductByID(ctx, 3)

			// Assert
			require.NoError(t, err)
			require.NotNil(t, product)
			assert.Equal(t, int64(3), product.ID)
			assert.Equal(t, expected.Name, product.Name)
			assert.Equal(t, expected.Category, product.Category)
			require.NotNil(t, product.OriginalPrice)
			assert.InDelta(t, 39.99, *product.OriginalPrice, 1e-9)
			assert.Equal(t, expected.Features, product.Features)
			assert.True(t, product.InStock)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Null Original Price And Empty Features", func(t *testing.T) {
			// Arrange
			expected := newTestPlant()
			expected.OriginalPrice = nil
			expected.Features = nil
			rows := addPlantRow(sqlmock.NewRows(productRowColumns), 4, expected, time.Now())

			mock.ExpectQuery(selectByIDSQL).WithArgs(int64(4)).WillReturnRows(rows)

			// Act
			product, err := repo.GetProductByID(ctx, 4)

			// Assert
			require.NoError(t, err)
			assert.Nil(t, product.OriginalPrice)
			assert.NotNil(t, product.Features)
			assert.Empty(t, product.Features)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(selectByIDSQL).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

			// Act
			product, err := repo.GetProductByID(ctx, 99)

			// Assert
			require.ErrorIs(t, err, repository.ErrProductNotFound)
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Database Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("connection reset")
			mock.ExpectQuery(selectByIDSQL).WithArgs(int64(5)).WillReturnError(dbError)

			// Act
			product, err := repo.GetProductByID(ctx, 5)

			// Assert
			require.ErrorIs(t, err, dbError)
			assert.NotErrorIs(t, err, repository.ErrProductNotFound)
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		t.Run("Success Keeps Explicit InStock", func(t *testing.T) {
			// Arrange
			product := newTestPlant()
			product.ID = 3
			product.StockQuantity = 0
			product.InStock = true
			now := time.Now()

			mock.ExpectQuery(updateSQL).
				WithArgs(product.Name, product.ScientificName, product.Description, product.Category, product.Image,
					product.Price, *product.OriginalPrice, 0, true, product.CareLevel,
					product.LightRequirement, product.WaterFrequency, product.Size, pq.Array(product.Features),
					product.IsPopular, product.IsOnSale, int64(3)).
				WillReturnRows(sqlmock.NewRows([]string{"rating", "review_count", "created_at", "updated_at"}).
					AddRow(4.5, 12, now.Add(-time.Hour), now))

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.True(t, product.InStock)
			assert.InDelta(t, 4.5, product.Rating, 1e-9)
			assert.Equal(t, 12, product.ReviewCount)
			assert.WithinDuration(t, now, product.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			// Arrange
			product := newTestPlant()
			product.ID = 404

			mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.ErrorIs(t, err, repository.ErrProductNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(deleteSQL).WithArgs(int64(3)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "Monstera Deliciosa"))

			// Act
			deleted, err := repo.DeleteProduct(ctx, 3)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, &models.DeletedProduct{ID: 3, Name: "Monstera Deliciosa"}, deleted)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(deleteSQL).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

			// Act
			deleted, err := repo.DeleteProduct(ctx, 3)

			// Assert
			require.ErrorIs(t, err, repository.ErrProductNotFound)
			assert.Nil(t, deleted)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListProducts", func(t *testing.T) {
		t.Run("No Filters", func(t *testing.T) {
			// Arrange
			now := time.Now()
			rows := sqlmock.NewRows(productRowColumns)
			addPlantRow(rows, 2, newTestPlant(), now)
			addPlantRow(rows, 1, newTestPlant(), now.Add(-time.Hour))

			mock.ExpectQuery(regexp.QuoteMeta(`FROM products ORDER BY created_at DESC`)).
				WithoutArgs().
				WillReturnRows(rows)

			// Act
			products, err := repo.ListProducts(ctx, models.ListProductsFilter{})

			// Assert
			require.NoError(t, err)
			require.Len(t, products, 2)
			assert.Equal(t, int64(2), products[0].ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("All Filters And Limit", func(t *testing.T) {
			// Arrange
			category := models.CategorySucculent
			inStock := true
			popular := false

			mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE category = $1 AND in_stock = $2 AND is_popular = $3 ORDER BY created_at DESC LIMIT $4`)).
				WithArgs(category, true, false, 5).
				WillReturnRows(sqlmock.NewRows(productRowColumns))

			// Act
			products, err := repo.ListProducts(ctx, models.ListProductsFilter{
				Category: &category,
				InStock:  &inStock,
				Popular:  &popular,
				Limit:    5,
			})

			// Assert
			require.NoError(t, err)
			assert.NotNil(t, products)
			assert.Empty(t, products)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Popular Only", func(t *testing.T) {
			// Arrange
			popular := true

			mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE is_popular = $1 ORDER BY created_at DESC`)).
				WithArgs(true).
				WillReturnRows(sqlmock.NewRows(productRowColumns))

			// Act
			_, err := repo.ListProducts(ctx, models.ListProductsFilter{Popular: &popular})

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Query Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("list failed")
			mock.ExpectQuery(`FROM products`).WillReturnError(dbError)

			// Act
			products, err := repo.ListProducts(ctx, models.ListProductsFilter{})

			// Assert
			require.ErrorIs(t, err, dbError)
			assert.Nil(t, products)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
