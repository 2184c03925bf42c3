package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dhakacartapp/dhakacart/internal/auth"
	"github.com/dhakacartapp/dhakacart/internal/cache"
	"github.com/dhakacartapp/dhakacart/internal/config"
	"github.com/dhakacartapp/dhakacart/internal/logging"
	"github.com/dhakacartapp/dhakacart/internal/services"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Handlers provides the storefront core's HTTP handlers.
type Handlers struct {
	config          *config.Config
	cacheProvider   cache.Provider
	productService  *services.ProductService
	checkoutService *services.CheckoutService
	tokenService    *auth.TokenService
	logger          *slog.Logger
}

type Dependencies struct {
	Config          *config.Config
	CacheProvider   cache.Provider
	ProductService  *services.ProductService
	CheckoutService *services.CheckoutService
	TokenService    *auth.TokenService
	Logger          *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.CacheProvider == nil {
		return nil, fmt.Errorf("handlers dependencies: cacheProvider is required")
	}
	if deps.ProductService == nil {
		return nil, fmt.Errorf("handlers dependencies: productService is required")
	}
	if deps.CheckoutService == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutService is required")
	}
	if deps.TokenService == nil {
		return nil, fmt.Errorf("handlers dependencies: tokenService is required")
	}

	return &Handlers{
		config:          deps.Config,
		cacheProvider:   deps.CacheProvider,
		productService:  deps.ProductService,
		checkoutService: deps.CheckoutService,
		tokenService:    deps.TokenService,
		logger:          logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]string{"error": message})
}

func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(out); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
