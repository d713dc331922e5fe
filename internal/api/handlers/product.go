package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/errors"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	service "github.com/aaravmahajanofficial/plant-storefront/internal/services"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Numeric fields may be sent as numbers or strings. inStock is derived from stockQuantity.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		500		{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//
//	@Summary	Get a product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product ID", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			if errors.IsNotFound(err) {
				logger.Info("Product not found", slog.Int64("productId", id))
			} else {
				logger.Error("Failed to fetch product", slog.Int64("productId", id), slog.Any("error", err))
			}
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct replaces the stored row. inStock must be sent explicitly.
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input", slog.Int64("productId", id))
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		deleted, err := h.productService.DeleteProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to delete product", slog.Int64("productId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, deleted)
	}
}

// ListProducts godoc
//
//	@Summary	List products, newest first
//	@Tags		Products
//	@Produce	json
//	@Param		category	query		string	false	"Exact category"
//	@Param		limit		query		int		false	"Maximum rows"
//	@Param		inStock		query		bool	false	"Availability flag"
//	@Param		popular		query		bool	false	"Popular flag"
//	@Success	200			{array}		models.Product
//	@Failure	400			{object}	response.ErrorResponse
//	@Router		/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseListFilter(r)
		if err != nil {
			logger.Warn("Invalid product list query", slog.String("query", r.URL.RawQuery))
			response.Error(w, err)
			return
		}

		products, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to fetch products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.List(w, products)
	}
}

func parseListFilter(r *http.Request) (models.ListProductsFilter, error) {
	q := r.URL.Query()
	var filter models.ListProductsFilter

	if raw := q.Get("category"); raw != "" {
		category := models.Category(raw)
		if !slices.Contains(models.Categories, category) {
			return filter, errors.AddValidationError("category", "unknown category")
		}
		filter.Category = &category
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errors.AddValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = limit
	}

	var err error
	if filter.InStock, err = optionalBool(q.Get("inStock"), "inStock"); err != nil {
		return filter, err
	}
	if filter.Popular, err = optionalBool(q.Get("popular"), "popular"); err != nil {
		return filter, err
	}

	return filter, nil
}

func optionalBool(raw, field string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.AddValidationError(field, "must be true or false")
	}

	return &v, nil
}
