package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/catalog"
	"github.com/aaravmahajanofficial/plant-storefront/internal/errors"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	service "github.com/aaravmahajanofficial/plant-storefront/internal/services"
	"github.com/aaravmahajanofficial/plant-storefront/internal/utils/response"
)

// CatalogHandler serves the shop grid: every product, filtered and sorted
// in memory.
type CatalogHandler struct {
	productService service.ProductService
}

func NewCatalogHandler(productService service.ProductService) *CatalogHandler {
	return &CatalogHandler{productService: productService}
}

// Browse godoc
//
//	@Summary	Filtered and sorted shop grid
//	@Tags		Catalog
//	@Produce	json
//	@Param		category			query		[]string	false	"Repeatable or comma separated"
//	@Param		careLevel			query		[]string	false	"Repeatable or comma separated"
//	@Param		lightRequirement	query		[]string	false	"Repeatable or comma separated"
//	@Param		size				query		[]string	false	"Repeatable or comma separated"
//	@Param		minPrice			query		number		false	"Inclusive USD lower bound"
//	@Param		maxPrice			query		number		false	"Inclusive USD upper bound"
//	@Param		inStock				query		bool		false	"Only in-stock products"
//	@Param		onSale				query		bool		false	"Only on-sale products"
//	@Param		sortBy				query		string		false	"name, price, rating or popularity"
//	@Param		order				query		string		false	"asc or desc"
//	@Success	200					{array}		models.Product
//	@Failure	400					{object}	response.ErrorResponse
//	@Router		/catalog [get]
func (h *CatalogHandler) Browse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		q := r.URL.Query()

		filter, err := catalog.ParseFilter(q)
		if err != nil {
			logger.Warn("Invalid catalog filter", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid filter").WithDetail(err.Error()))
			return
		}

		sort, err := catalog.ParseSort(q)
		if err != nil {
			logger.Warn("Invalid catalog sort", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid sort").WithDetail(err.Error()))
			return
		}

		stored, err := h.productService.ListProducts(r.Context(), models.ListProductsFilter{})
		if err != nil {
			logger.Error("Failed to load catalog", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		products := make([]models.Product, 0, len(stored))
		for _, p := range stored {
			products = append(products, *p)
		}

		response.List(w, catalog.Apply(products, filter, sort))
	}
}
