package cache

// Package cache provides caching for remote catalog API responses.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("key not found")

// Provider is the storage interface for cached catalog payloads.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Purge drops every cached entry. The admin cache-purge endpoint calls
	// this after catalog edits upstream.
	Purge(ctx context.Context) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
}

func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Provider)
	}
}

// ProductKey is the cache key for a product payload.
func ProductKey(productID int64) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// VariantsKey is the cache key for a product's variant list.
func VariantsKey(productID int64) string {
	return fmt.Sprintf("catalog:variants:%d", productID)
}
