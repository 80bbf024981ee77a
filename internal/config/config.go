package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            int
	LogLevel        string
	DevMode         bool
	DataDir         string
	ConfigPath      string
	InventoryPath   string
	RiskTablesPath  string
	CacheBackend    string // memory or sqlite
	CacheDBPath     string
	CacheTTL        time.Duration
	CacheSweepCron  string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		DataDir:         dataDir,
		ConfigPath:      getEnv("CONFIG_PATH", dataDir+"/engine_config.json"),
		InventoryPath:   getEnv("INVENTORY_PATH", dataDir+"/inventory.csv"),
		RiskTablesPath:  getEnv("RISK_TABLES_PATH", ""),
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		CacheDBPath:     getEnv("CACHE_DB_PATH", dataDir+"/offer_cache.db"),
		CacheTTL:        getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		CacheSweepCron:  getEnv("CACHE_SWEEP_CRON", "@hourly"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "sqlite" {
		return fmt.Errorf("CACHE_BACKEND must be memory or sqlite, got %q", c.CacheBackend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
