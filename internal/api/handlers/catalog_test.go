package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/plant-storefront/internal/errors"
	"github.com/aaravmahajanofficial/plant-storefront/internal/models"
	"github.com/aaravmahajanofficial/plant-storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/plant-storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func shopProducts() []*models.Product {
	return []*models.Product{
		{ID: 1, Name: "Jade", Category: models.CategorySucculent, CareLevel: models.CareEasy, Price: 10, InStock: true},
		{ID: 2, Name: "Orchid", Category: models.CategoryFlowering, CareLevel: models.CareDifficult, Price: 30, InStock: true, IsOnSale: true},
		{ID: 3, Name: "Echeveria", Category: models.CategorySucculent, CareLevel: models.CareModerate, Price: 20, InStock: false},
		{ID: 4, Name: "Pothos", Category: models.CategoryIndoor, CareLevel: models.CareEasy, Price: 15, InStock: true},
	}
}

func browse(t *testing.T, query string, stored []*models.Product) *httptest.ResponseRecorder {
	t.Helper()

	mockService := mocks.NewProductService(t)
	if stored != nil {
		mockService.On("ListProducts", mock.Anything, models.ListProductsFilter{}).Return(stored, nil).Once()
	}

	rr := httptest.NewRecorder()
	req := testutils.NewRequest(http.MethodGet, "/api/v1/catalog?"+query, nil, nil)
	handlers.NewCatalogHandler(mockService).Browse().ServeHTTP(rr, req)

	return rr
}

func productIDs(t *testing.T, rr *httptest.ResponseRecorder) []int64 {
	t.Helper()

	var products []models.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &products))

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	return ids
}

func TestCatalogBrowse(t *testing.T) {

	t.Run("No Params Keeps Store Order", func(t *testing.T) {
		rr := browse(t, "", shopProducts())

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []int64{1, 2, 3, 4}, productIDs(t, rr))
	})

	t.Run("Category Filter With Any Care Level", func(t *testing.T) {
		rr := browse(t, "category=Succulents", shopProducts())

		assert.Equal(t, []int64{1, 3}, productIDs(t, rr))
	})

	t.Run("Price Descending", func(t *testing.T) {
		rr := browse(t, "sortBy=price&order=desc", shopProducts())

		assert.Equal(t, []int64{2, 3, 4, 1}, productIDs(t, rr))
	})

	t.Run("Inclusive Price Range And In Stock", func(t *testing.T) {
		rr := browse(t, "minPrice=15&maxPrice=30&inStock=true&sortBy=name", shopProducts())

		assert.Equal(t, []int64{2, 4}, productIDs(t, rr))
	})

	t.Run("On Sale Only", func(t *testing.T) {
		rr := browse(t, "onSale=true", shopProducts())

		assert.Equal(t, []int64{2}, productIDs(t, rr))
	})

	t.Run("Bad Filter", func(t *testing.T) {
		rr := browse(t, "minPrice=50&maxPrice=10", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, decodeEnvelope(t, rr).Error.Code)
	})

	t.Run("Bad Sort", func(t *testing.T) {
		rr := browse(t, "sortBy=color", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Store Failure", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewProductService(t)
		mockService.On("ListProducts", mock.Anything, mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to fetch products").WithError(errors.New("down"))).Once()
		rr := httptest.NewRecorder()

		// Act
		handlers.NewCatalogHandler(mockService).Browse().ServeHTTP(rr, testutils.NewRequest(http.MethodGet, "/api/v1/catalog", nil, nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
