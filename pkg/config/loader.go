package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"k8s.io/klog/v2"
)

// DefaultPVWattsURL is the NREL PVWatts v8 JSON endpoint.
const DefaultPVWattsURL = "https://developer.nrel.gov/api/pvwatts/v8.json"

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Irradiance: IrradianceConfig{
			APIKey:         os.Getenv("PVWATTS_API_KEY"),
			URL:            getEnvOrDefault("PVWATTS_API_URL", DefaultPVWattsURL),
			Timeout:        getDurationOrDefault("IRRADIANCE_TIMEOUT", 10*time.Second),
			MaxAttempts:    getIntOrDefault("IRRADIANCE_MAX_ATTEMPTS", 3),
			InitialBackoff: getDurationOrDefault("IRRADIANCE_INITIAL_BACKOFF", 500*time.Millisecond),
			CacheEnabled:   getBoolOrDefault("IRRADIANCE_CACHE_ENABLED", true),
		},
		Store: StoreConfig{
			Driver: getEnvOrDefault("STORE_DRIVER", "sqlite3"),
			DSN:    os.Getenv("STORE_DSN"),
		},
		Server: ServerConfig{
			Port: getIntOrDefault("SERVER_PORT", 3000),
		},
		Catalog: CatalogConfig{
			CablesPath: os.Getenv("CABLE_CATALOG_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.Atoi(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid integer value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := strconv.ParseBool(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid boolean value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if strValue := os.Getenv(key); strValue != "" {
		if value, err := time.ParseDuration(strValue); err == nil {
			return value
		}
		klog.V(2).InfoS("Invalid duration value, using default",
			"key", key,
			"value", strValue,
			"default", defaultValue)
	}
	return defaultValue
}
