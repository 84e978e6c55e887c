package config

import (
	"fmt"
	"time"
)

// Config is the runtime configuration of the planner binaries. Design inputs
// live in the project's design.yaml; this only covers collaborators.
type Config struct {
	Irradiance IrradianceConfig
	Store      StoreConfig
	Server     ServerConfig
	Catalog    CatalogConfig
}

// IrradianceConfig configures the PVWatts client and its retry policy.
type IrradianceConfig struct {
	APIKey         string
	URL            string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	CacheEnabled   bool
}

// StoreConfig selects the results store. An empty DSN disables persistence.
type StoreConfig struct {
	Driver string
	DSN    string
}

type ServerConfig struct {
	Port int
}

// CatalogConfig points at a cable catalog YAML; empty uses the built-in one.
type CatalogConfig struct {
	CablesPath string
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Irradiance.URL == "" {
		return fmt.Errorf("irradiance API URL is required")
	}
	if c.Irradiance.Timeout <= 0 {
		return fmt.Errorf("irradiance timeout must be positive")
	}
	if c.Irradiance.MaxAttempts < 1 {
		return fmt.Errorf("irradiance max attempts must be at least 1")
	}
	if c.Irradiance.InitialBackoff < 0 {
		return fmt.Errorf("irradiance initial backoff must not be negative")
	}
	switch c.Store.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported store driver %q (want sqlite3 or postgres)", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	return nil
}

// StoreEnabled reports whether results should be persisted.
func (c *Config) StoreEnabled() bool {
	return c.Store.DSN != ""
}
