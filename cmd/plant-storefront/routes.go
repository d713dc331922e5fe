package main

import (
	"net/http"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
	service "github.com/aaravmahajanofficial/plant-storefront/internal/services"
	"github.com/aaravmahajanofficial/plant-storefront/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type deps struct {
	products   service.ProductService
	rates      rates.Provider
	images     storage.ImageStore
	auth       *middleware.AuthMiddleware
	uploadDir  string
	publicPath string
	maxUpload  int64
	health     http.Handler
}

func newRouter(d deps) http.Handler {

	productHandler := handlers.NewProductHandler(d.products)
	catalogHandler := handlers.NewCatalogHandler(d.products)
	rateHandler := handlers.NewRateHandler(d.rates)
	uploadHandler := handlers.NewUploadHandler(d.images, d.maxUpload)

	routerMux := http.NewServeMux()

	// Public reads
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/catalog", catalogHandler.Browse())
	routerMux.HandleFunc("GET /api/v1/exchange-rate", rateHandler.ExchangeRate())

	// Admin writes
	routerMux.HandleFunc("POST /api/v1/products", d.auth.RequireAdmin(productHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", d.auth.RequireAdmin(productHandler.UpdateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", d.auth.RequireAdmin(productHandler.DeleteProduct()))
	routerMux.HandleFunc("POST /api/v1/upload", d.auth.RequireAdmin(uploadHandler.Upload()))

	routerMux.Handle("GET "+d.publicPath, http.StripPrefix(d.publicPath, http.FileServer(http.Dir(d.uploadDir))))

	if d.health != nil {
		routerMux.Handle("GET /health", d.health)
	}
	routerMux.Handle("GET /metrics", metrics.Handler())

	// metrics sits inside logging so r.Pattern is set when it records
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "plant-storefront")

	return handler
}
