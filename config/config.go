// Package config reads settings from .env and the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amorty/cafe-admin/utils"
	"github.com/joho/godotenv"
)

const (
	BackendGorm   = "gorm"
	BackendMemory = "memory"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	StoreBackend string
	DBDriver     string
	DBDSN        string

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername string
	AdminPassword string

	SeedSampleData bool
	CORSOrigin     string

	// RateLimit is requests per second per client IP; RateBurst the bucket size.
	RateLimit float64
	RateBurst int

	ChangePollInterval time.Duration
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		GinMode:       get("GIN_MODE", "debug"),
		LogLevel:      get("LOG_LEVEL", "info"),
		StoreBackend:  strings.ToLower(get("STORE_BACKEND", BackendGorm)),
		DBDriver:      strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DBDSN:         get("DB_DSN", "amorty.db"),
		JWTSecret:     get("JWT_SECRET", ""),
		AdminUsername: get("ADMIN_USERNAME", "admin"),
		AdminPassword: get("ADMIN_PASSWORD", "admin"),
		CORSOrigin:    get("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.ChangePollInterval, err = time.ParseDuration(get("CHANGE_POLL_INTERVAL", "500ms")); err != nil {
		return nil, fmt.Errorf("CHANGE_POLL_INTERVAL: %w", err)
	}
	if cfg.SeedSampleData, err = strconv.ParseBool(get("SEED_SAMPLE_DATA", "false")); err != nil {
		return nil, fmt.Errorf("SEED_SAMPLE_DATA: %w", err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(get("RATE_LIMIT", "10"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	if cfg.RateBurst, err = strconv.Atoi(get("RATE_BURST", "20")); err != nil {
		return nil, fmt.Errorf("RATE_BURST: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, fmt.Errorf("JWT_SECRET must be set in release mode")
		}
		utils.InfoLogger.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "amorty-dev-secret"
	}

	switch cfg.StoreBackend {
	case BackendGorm, BackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND %q: want %s or %s", cfg.StoreBackend, BackendGorm, BackendMemory)
	}
	switch cfg.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("DB_DRIVER %q: want %s or %s", cfg.DBDriver, DriverSQLite, DriverMySQL)
	}
	return cfg, nil
}
