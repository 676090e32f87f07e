// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type DatabaseConfig interface {
	GetDatabaseURL() string
}

type HTTPConfig interface {
	GetHTTPAddr() string
}

// CheckoutConfig bounds every backend call made while committing a sale.
type CheckoutConfig interface {
	GetAdjustTimeout() time.Duration
	GetRecordTimeout() time.Duration
	GetMaxParallelAdjustments() int
	GetCompensationMaxElapsed() time.Duration
}

type AllocationConfig interface {
	GetPoolOrder() string
}

type Config struct {
	Env                    string
	Store                  string
	HTTPAddr               string
	DatabaseURL            string
	Currency               string
	PoolOrder              string
	AdjustTimeout          time.Duration
	RecordTimeout          time.Duration
	MaxParallelAdjustments int
	CompensationMaxElapsed time.Duration
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string { return c.HTTPAddr }

func (c *Config) GetAdjustTimeout() time.Duration          { return c.AdjustTimeout }
func (c *Config) GetRecordTimeout() time.Duration          { return c.RecordTimeout }
func (c *Config) GetMaxParallelAdjustments() int           { return c.MaxParallelAdjustments }
func (c *Config) GetCompensationMaxElapsed() time.Duration { return c.CompensationMaxElapsed }

func (c *Config) GetPoolOrder() string { return c.PoolOrder }

// Load reads configuration from the environment, after applying a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		Store:                  strings.ToLower(getEnv("STORE", StorePostgres)),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		Currency:               strings.ToUpper(getEnv("CURRENCY", "USD")),
		PoolOrder:              strings.ToLower(getEnv("POOL_ORDER", "catalog")),
		AdjustTimeout:          mustDuration(getEnv("ADJUST_TIMEOUT", "5s")),
		RecordTimeout:          mustDuration(getEnv("RECORD_TIMEOUT", "10s")),
		MaxParallelAdjustments: mustInt(getEnv("MAX_PARALLEL_ADJUSTMENTS", "0")),
		CompensationMaxElapsed: mustDuration(getEnv("COMPENSATION_MAX_ELAPSED", "2m")),
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE is %s", StorePostgres)
		}
	default:
		return nil, fmt.Errorf("STORE must be %s or %s, got %q", StoreMemory, StorePostgres, cfg.Store)
	}

	switch cfg.PoolOrder {
	case "catalog", "largest":
	default:
		return nil, fmt.Errorf("POOL_ORDER must be catalog or largest, got %q", cfg.PoolOrder)
	}

	if cfg.AdjustTimeout <= 0 || cfg.RecordTimeout <= 0 {
		return nil, fmt.Errorf("ADJUST_TIMEOUT and RECORD_TIMEOUT must be positive durations")
	}
	if cfg.CompensationMaxElapsed <= 0 {
		return nil, fmt.Errorf("COMPENSATION_MAX_ELAPSED must be a positive duration")
	}
	if cfg.MaxParallelAdjustments < 0 {
		return nil, fmt.Errorf("MAX_PARALLEL_ADJUSTMENTS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}
