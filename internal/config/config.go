// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Storage     StorageConfig
	JWT         JWTConfig
	Latency     LatencyConfig
	// DevTools gates the operator import/export surface.
	DevTools bool
}

type StorageConfig struct {
	// Path of the sqlite file backing the key-value substrate.
	Path string
	// SchemaPrefix namespaces versioned keys, e.g. "v2:".
	SchemaPrefix string
}

type JWTConfig struct {
	SecretKey string
	TTLHours  int
}

type LatencyConfig struct {
	// Simulated network latency bounds, milliseconds.
	MinMS    int
	MaxMS    int
	Disabled bool
}

const defaultJWTSecret = "bmarket-dev-secret-change-in-production"

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Storage: StorageConfig{
			Path:         getEnv("STORAGE_PATH", "./data/bmarket.db"),
			SchemaPrefix: getEnv("STORAGE_SCHEMA_PREFIX", "v2:"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", defaultJWTSecret),
			TTLHours:  getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Latency: LatencyConfig{
			MinMS:    getEnvAsInt("LATENCY_MIN_MS", 100),
			MaxMS:    getEnvAsInt("LATENCY_MAX_MS", 250),
			Disabled: getEnvAsBool("LATENCY_DISABLED", false),
		},
		DevTools: getEnvAsBool("DEV_TOOLS", false),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Latency.MinMS > c.Latency.MaxMS {
		return fmt.Errorf("latency bounds inverted: min %d > max %d", c.Latency.MinMS, c.Latency.MaxMS)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
