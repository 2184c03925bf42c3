package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/dhakacartapp/dhakacart/internal/auth"
	"github.com/dhakacartapp/dhakacart/internal/cache"
	"github.com/dhakacartapp/dhakacart/internal/config"
	"github.com/dhakacartapp/dhakacart/internal/handlers"
	"github.com/dhakacartapp/dhakacart/internal/observability"
	"github.com/dhakacartapp/dhakacart/internal/payments"
	"github.com/dhakacartapp/dhakacart/internal/services"
	"github.com/dhakacartapp/dhakacart/internal/shipping"
	"github.com/dhakacartapp/dhakacart/internal/storefront"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	catalogClient, err := storefront.NewClient(storefront.Options{
		BaseURL:    cfg.CatalogAPIBaseURL,
		Token:      cfg.CatalogAPIToken,
		Cache:      cacheProvider,
		CacheTTL:   cfg.CatalogCacheTTL,
		HTTPClient: observability.NewHTTPClient(15 * time.Second),
		Logger:     logger.With("component", "storefront_client"),
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	zones := shipping.DefaultZones()
	if path := strings.TrimSpace(cfg.ShippingZonesPath); path != "" {
		zones, err = shipping.LoadZonesFile(path)
		if err != nil {
			closeCacheProvider(logger, cacheProvider)
			return nil, fmt.Errorf("failed to load shipping zones: %w", err)
		}
		logger.Info("shipping zones loaded", "path", path, "zones", len(zones))
	}

	var checkoutPayments services.CheckoutPayments
	if cfg.CheckoutEnabled() {
		checkoutPayments = payments.NewCheckoutClient(cfg.StripeSecretKey, cfg.Currency)
		logger.Info("stripe checkout enabled", "currency", cfg.Currency)
	}

	productService := services.NewProductService(catalogClient, logger.With("component", "product_service"))
	checkoutService := services.NewCheckoutService(
		catalogClient,
		shipping.NewCalculator(zones),
		checkoutPayments,
		cfg.BaseURL,
		logger.With("component", "checkout_service"),
	)

	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.AdminAccessKey)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:          cfg,
		CacheProvider:   cacheProvider,
		ProductService:  productService,
		CheckoutService: checkoutService,
		TokenService:    tokenService,
		Logger:          logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		CacheProvider: cacheProvider,
		Handlers:      h,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
