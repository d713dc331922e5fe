package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/plant-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/plant-storefront/internal/cache"
	"github.com/aaravmahajanofficial/plant-storefront/internal/config"
	"github.com/aaravmahajanofficial/plant-storefront/internal/health"
	"github.com/aaravmahajanofficial/plant-storefront/internal/rates"
	repository "github.com/aaravmahajanofficial/plant-storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/plant-storefront/internal/services"
	"github.com/aaravmahajanofficial/plant-storefront/internal/storage/local"
	"github.com/aaravmahajanofficial/plant-storefront/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {

	// Runs last so the deferred cleanups below still happen on failure.
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Otel, version)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup, optional
	var productCache cache.Cache = cache.Noop{}
	if cfg.RedisConnect.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			slog.Warn("⚠️ Redis unavailable, product cache disabled", slog.String("error", err.Error()))
		} else {
			productCache = cache.NewRedisCache(redisClient, &cfg.Cache)
		}
	}

	defer productCache.Close()

	images, err := local.New(&cfg.Upload)
	if err != nil {
		slog.Error("❌ Error preparing the upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthHandler, err := health.NewHealthHandler(cfg, version)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	handler := newRouter(deps{
		products:   service.NewProductService(repos.Product, productCache),
		rates:      rates.NewProvider(cfg.ExchangeRate.Endpoint, rateClient),
		images:     images,
		auth:       middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey)),
		uploadDir:  images.Dir(),
		publicPath: cfg.Upload.PublicPath,
		maxUpload:  cfg.Upload.MaxBytes,
		health:     healthHandler.Handler(),
	})

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", version))

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	if err := serve(&server, done, 5*time.Second); err != nil {
		slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		exitCode = 1
	}
}
