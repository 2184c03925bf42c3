package storefront

// Package storefront is the HTTP client for the remote product catalog API.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhakacartapp/dhakacart/internal/cache"
	"github.com/dhakacartapp/dhakacart/internal/catalog"
	"github.com/dhakacartapp/dhakacart/internal/logging"
	"github.com/dhakacartapp/dhakacart/internal/observability"
)

// ErrProductNotFound is returned when the catalog API has no such product.
var ErrProductNotFound = errors.New("product not found")

const (
	requestTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20 // 4 MB
)

// Client fetches products and variants from the catalog API, caching
// decoded-payload JSON through the cache provider. The engines consume
// the already-resolved in-memory data; all I/O stays here.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
	logger     *slog.Logger
}

type Options struct {
	BaseURL    string
	Token      string
	Cache      cache.Provider
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("catalog API base URL is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = observability.NewHTTPClient(requestTimeout)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    opts.BaseURL,
		token:      opts.Token,
		httpClient: httpClient,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
	}, nil
}

// GetProduct fetches a product by id, serving from cache when possible.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*catalog.Product, error) {
	var product catalog.Product
	key := cache.ProductKey(productID)
	path := fmt.Sprintf("/products/%d", productID)

	if err := c.fetch(ctx, path, key, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVariants fetches a product's variant list. A product without variants
// yields an empty list, not an error.
func (c *Client) GetVariants(ctx context.Context, productID int64) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	key := cache.VariantsKey(productID)
	path := fmt.Sprintf("/products/%d/variants", productID)

	if err := c.fetch(ctx, path, key, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *Client) fetch(ctx context.Context, path, cacheKey string, out any) error {
	logger := logging.FromContext(ctx, c.logger)

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			if err := json.Unmarshal([]byte(cached), out); err == nil {
				return nil
			}
			// A corrupt cache entry falls through to a fresh fetch.
			_ = c.cache.Delete(ctx, cacheKey)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrProductNotFound
	default:
		return fmt.Errorf("catalog API returned status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read catalog response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, cacheKey, string(body), c.cacheTTL); err != nil {
			logger.Warn("failed to cache catalog response", "key", cacheKey, "error", err)
		}
	}

	return nil
}
