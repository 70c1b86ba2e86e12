package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Storage configuration
	StoreBackend string // "memory" or "badger"
	BadgerPath   string

	// Content catalog file (YAML). Empty means an empty catalog.
	ContentFile string

	// Tuning file with hot-reloadable engine settings. Empty disables the
	// watcher and uses built-in defaults.
	TuningFile string

	// Logging
	LogLevel string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		StoreBackend:  getEnv("STORE_BACKEND", "memory"),
		BadgerPath:    getEnv("BADGER_PATH", "data/pathways"),
		ContentFile:   getEnv("CONTENT_FILE", ""),
		TuningFile:    getEnv("TUNING_FILE", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "memory":
	case "badger":
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (expected memory or badger)", c.StoreBackend)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
