package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	CatalogAPIBaseURL string        `env:"CATALOG_API_BASE_URL,required" validate:"required,url"`
	CatalogAPIToken   string        `env:"CATALOG_API_TOKEN"`
	CatalogCacheTTL   time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	ShippingZonesPath string `env:"SHIPPING_ZONES_PATH"`

	AdminAccessKey string `env:"ADMIN_ACCESS_KEY,required" validate:"required,min=16"`
	JWTSecret      string `env:"JWT_SECRET,required" validate:"required,min=32"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency        string `env:"CURRENCY" envDefault:"bdt" validate:"required,len=3"`
	BaseURL         string `env:"BASE_URL" validate:"omitempty,url"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if strings.TrimSpace(c.StripeSecretKey) != "" && baseURL == "" {
		return fmt.Errorf("BASE_URL is required when Stripe checkout is enabled")
	}

	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	if c.CatalogCacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be zero or positive")
	}

	return nil
}

// CheckoutEnabled reports whether Stripe checkout sessions can be created.
func (c *Config) CheckoutEnabled() bool {
	return strings.TrimSpace(c.StripeSecretKey) != ""
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
