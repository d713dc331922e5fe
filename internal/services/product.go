package service

import (
	"context"
	"errors"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/cache"
	"github.com/aaravmahajanofficial/plant-storefront/internal/currency"
	appErrors "github.com/aaravmahajanofficial/plant-storefront/internal/errors"
	"github.com/aaravmahajanofficial/plant-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	repository "github.com/aaravmahajanofficial/plant-storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*models.DeletedProduct, error)
	ListProducts(ctx context.Context, filter models.ListProductsFilter) ([]*models.Product, error)
}

type productService struct {
	repo   repository.ProductRepository
	cache  cache.Cache
	policy *bluemonday.Policy
}

// NewProductService wires the store and the single-product cache. A nil
// cache disables caching.
func NewProductService(repo repository.ProductRepository, c cache.Cache) ProductService {
	if c == nil {
		c = cache.Noop{}
	}

	return &productService{
		repo:   repo,
		cache:  c,
		policy: bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product, err := s.buildProduct(req)
	if err != nil {
		return nil, err
	}

	// Only creation derives availability from the stock count.
	product.InStock = product.StockQuantity > 0
	product.Rating = 0
	product.ReviewCount = 0

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	metrics.ProductWritten("create")

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.ProductKey(id)

	var cached models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("product cache read failed", "key", key, "error", err)
	}
	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Failed to fetch product")
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("product cache write failed", "key", key, "error", err)
	}

	return product, nil
}

// UpdateProduct replaces every editable field. inStock comes from the
// request as-is, even when it disagrees with stockQuantity.
func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.buildProduct(&req.CreateProductRequest)
	if err != nil {
		return nil, err
	}

	product.ID = id
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, mapRepoError(err, "Failed to update product")
	}

	s.invalidate(ctx, id)
	metrics.ProductWritten("update")

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) (*models.DeletedProduct, error) {

	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Failed to delete product")
	}

	s.invalidate(ctx, id)
	metrics.ProductWritten("delete")

	return deleted, nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ListProductsFilter) ([]*models.Product, error) {

	if filter.Limit < 0 {
		return nil, appErrors.BadRequestError("limit must not be negative")
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, nil
}

func (s *productService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("product cache invalidation failed", "id", id, "error", err)
	}
}

// buildProduct coerces the raw form values and fills in enum defaults.
func (s *productService) buildProduct(req *models.CreateProductRequest) (*models.Product, error) {

	price, err := parseDecimal("price", req.Price)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, appErrors.AddValidationError("price", "is required")
	}
	if *price <= 0 {
		return nil, appErrors.AddValidationError("price", "must be greater than zero")
	}

	originalPrice, err := parseDecimal("originalPrice", req.OriginalPrice)
	if err != nil {
		return nil, err
	}

	stock, err := parseStock(req.StockQuantity)
	if err != nil {
		return nil, err
	}

	features := make([]string, 0, len(req.Features))
	for _, f := range req.Features {
		if f = s.clean(f); f != "" {
			features = append(features, f)
		}
	}

	product := &models.Product{
		Name:             s.clean(req.Name),
		ScientificName:   s.clean(req.ScientificName),
		Description:      s.clean(req.Description),
		Category:         req.Category,
		Image:            strings.TrimSpace(req.Image),
		Price:            *price,
		OriginalPrice:    originalPrice,
		StockQuantity:    stock,
		CareLevel:        req.CareLevel,
		LightRequirement: req.LightRequirement,
		WaterFrequency:   req.WaterFrequency,
		Size:             req.Size,
		Features:         features,
		IsPopular:        req.IsPopular,
		IsOnSale:         req.IsOnSale,
	}

	if product.Name == "" {
		return nil, appErrors.AddValidationError("name", "is required")
	}
	if product.Description == "" {
		return nil, appErrors.AddValidationError("description", "is required")
	}

	applyDefaults(product)

	return product, nil
}

func applyDefaults(p *models.Product) {
	if p.CareLevel == "" {
		p.CareLevel = models.DefaultCareLevel
	}
	if p.LightRequirement == "" {
		p.LightRequirement = models.DefaultLightRequirement
	}
	if p.WaterFrequency == "" {
		p.WaterFrequency = models.DefaultWaterFrequency
	}
	if p.Size == "" {
		p.Size = models.DefaultSize
	}
	if p.Image == "" {
		p.Image = models.DefaultImage
	}
}

// clean strips markup and returns plain trimmed text.
func (s *productService) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

// parseDecimal returns nil for an absent value so the column stays NULL.
// Values are rounded to cents, the precision the price columns keep.
func parseDecimal(field string, v models.FormValue) (*float64, error) {
	raw := strings.TrimSpace(string(v))
	if raw == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, appErrors.AddValidationError(field, "must be a number")
	}
	if f < 0 {
		return nil, appErrors.AddValidationError(field, "must not be negative")
	}

	f = currency.Round2(f)

	return &f, nil
}

// parseStock accepts "5" as well as "5.0"; fractional counts truncate.
func parseStock(v models.FormValue) (int, error) {
	raw := strings.TrimSpace(string(v))
	if raw == "" {
		return 0, appErrors.AddValidationError("stockQuantity", "is required")
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
			return 0, appErrors.AddValidationError("stockQuantity", "must be a whole number")
		}
		n = int(f)
	}
	if n > math.MaxInt32 {
		return 0, appErrors.AddValidationError("stockQuantity", "is too large")
	}
	if n < 0 {
		return 0, appErrors.AddValidationError("stockQuantity", "must not be negative")
	}

	return n, nil
}

func mapRepoError(err error, message string) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return appErrors.NotFoundError("Product not found").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}
