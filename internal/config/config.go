package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Hostaway upstream
	HostawayAccountID string
	HostawayAPIKey    string
	HostawayBaseURL   string
	UpstreamTimeout   time.Duration

	// Google Places upstream
	GooglePlacesAPIKey  string
	GooglePlacesBaseURL string
	GooglePlaceID       string
	GoogleListingName   string

	// Approval store; KV_URL takes precedence over REDIS_ADDR
	KVURL         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Fixture storage
	StorageAccount          string
	StorageConnectionString string
	StorageContainer        string
	FixtureDir              string
	FixtureName             string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		HostawayAccountID: getEnv("HOSTAWAY_ACCOUNT_ID", ""),
		HostawayAPIKey:    getEnv("HOSTAWAY_API_KEY", ""),
		HostawayBaseURL:   getEnv("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		UpstreamTimeout:   getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),

		GooglePlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		GooglePlacesBaseURL: getEnv("GOOGLE_PLACES_BASE_URL", "https://places.googleapis.com/v1"),
		GooglePlaceID:       getEnv("GOOGLE_PLACE_ID", ""),
		GoogleListingName:   getEnv("GOOGLE_LISTING_NAME", ""),

		KVURL:         getEnv("KV_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		StorageAccount:          getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		StorageContainer:        getEnv("AZURE_STORAGE_CONTAINER", "fixtures"),
		FixtureDir:              getEnv("FIXTURE_DIR", ""),
		FixtureName:             getEnv("FIXTURE_NAME", "hostaway.json"),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if (c.HostawayAccountID == "") != (c.HostawayAPIKey == "") {
		return fmt.Errorf("HOSTAWAY_ACCOUNT_ID and HOSTAWAY_API_KEY must be set together")
	}

	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative")
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	return nil
}

// AzureConfigured reports whether fixtures are kept in Azure Blob Storage
func (c *Config) AzureConfigured() bool {
	return c.StorageAccount != "" || c.StorageConnectionString != ""
}

// HostawayConfigured reports whether the live Hostaway API should be queried
func (c *Config) HostawayConfigured() bool {
	return c.HostawayAccountID != "" && c.HostawayAPIKey != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
