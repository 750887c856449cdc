package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	CORSAllowedOrigins []string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// Shipping carries the flat-rate shipping settings used by the pricing
	// engine. Resolved once here; passed as explicit parameters everywhere else.
	Shipping pricing.ShippingConfig
	// PricePerCalorie prices one calorie unit of a meal plan.
	PricePerCalorie float64
	// CurrencySymbol is prepended to formatted amounts in API payloads.
	CurrencySymbol string

	CatalogCacheTTL time.Duration
	DefaultPageSize int
	MaxPageSize     int

	LoginRateWindow time.Duration
	LoginRateMax    int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		JWTIssuer:          valueOrDefault(k.String("JWT_ISSUER"), "maaltijdbox-admin"),
		JWTAudience:        valueOrDefault(k.String("JWT_AUDIENCE"), "maaltijdbox-backoffice"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		AccessTokenTTL:     parseDuration(k.String("ACCESS_TOKEN_TTL"), "15m"),
		RefreshTokenTTL:    parseDuration(k.String("REFRESH_TOKEN_TTL"), "720h"),
		Shipping: pricing.ShippingConfig{
			FreeShippingThreshold: parseFloat(k.String("MINIMUM_ORDER_VALUE_FOR_FREE_SHIPPING"), 50),
			ShippingCharge:        parseFloat(k.String("SHIPPING_CHARGE"), 4.95),
		},
		PricePerCalorie: parseFloat(k.String("PRICE_PER_CALORIE"), 0.002),
		CurrencySymbol:  valueOrDefault(k.String("CURRENCY_SYMBOL"), "€"),
		CatalogCacheTTL: parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		DefaultPageSize: parseInt(k.String("DEFAULT_PAGE_SIZE"), 20),
		MaxPageSize:     parseInt(k.String("MAX_PAGE_SIZE"), 100),
		LoginRateWindow: parseDuration(k.String("LOGIN_RATE_WINDOW"), "1m"),
		LoginRateMax:    parseInt(k.String("LOGIN_RATE_MAX"), 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.Shipping.ShippingCharge < 0 || cfg.Shipping.FreeShippingThreshold < 0 {
		return nil, errors.New("shipping settings must not be negative")
	}
	if cfg.PricePerCalorie <= 0 {
		return nil, errors.New("PRICE_PER_CALORIE must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
