// Package config loads and validates the rubro service configuration from a
// JSON file with environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/c360/rubro/errors"
	"github.com/c360/rubro/storage/objectstore"
)

// Config represents the complete application configuration.
type Config struct {
	Version  string         `json:"version"`
	Taxonomy TaxonomyConfig `json:"taxonomy"`
	NATS     NATSConfig     `json:"nats"`
	Metrics  MetricsConfig  `json:"metrics"`
	Health   HealthConfig   `json:"health"`
}

// TaxonomyConfig configures where the taxonomy dataset is loaded from.
type TaxonomyConfig struct {
	// Dir is the local directory holding dataset files (primary source).
	Dir string `json:"dir"`

	// Key is the dataset key within the store, e.g. "rubros.json".
	Key string `json:"key"`

	// ObjectStore configures the fallback source. Empty bucket disables it.
	ObjectStore objectstore.Config `json:"object_store"`
}

// NATSConfig configures the connection used by the object-store fallback.
type NATSConfig struct {
	URL string `json:"url"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Port int    `json:"port"` // 0 disables the metrics server
	Path string `json:"path"`
}

// HealthConfig configures the health endpoint.
type HealthConfig struct {
	Port int `json:"port"` // 0 disables the health server
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Taxonomy: TaxonomyConfig{
			Dir: "data",
			Key: "rubros.json",
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Metrics: MetricsConfig{
			Port: 9090,
			Path: "/metrics",
		},
		Health: HealthConfig{
			Port: 8080,
		},
	}
}

// Load reads configuration from path, falling back to defaults when path is
// empty, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "config", "Load", "read config file")
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "decode config JSON")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from RUBRO_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("RUBRO_TAXONOMY_DIR"); v != "" {
		c.Taxonomy.Dir = v
	}
	if v := os.Getenv("RUBRO_TAXONOMY_KEY"); v != "" {
		c.Taxonomy.Key = v
	}
	if v := os.Getenv("RUBRO_TAXONOMY_BUCKET"); v != "" {
		c.Taxonomy.ObjectStore.BucketName = v
	}
	if v := os.Getenv("RUBRO_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("RUBRO_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Metrics.Port = port
		}
	}
	if v := os.Getenv("RUBRO_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Health.Port = port
		}
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Taxonomy.Key == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "config", "Validate", "taxonomy.key")
	}
	if c.Taxonomy.Dir == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "config", "Validate", "taxonomy.dir")
	}
	if c.Taxonomy.ObjectStore.BucketName != "" && c.NATS.URL == "" {
		return errors.WrapFatal(
			fmt.Errorf("object store fallback requires nats.url: %w", errors.ErrInvalidConfig),
			"config", "Validate", "check nats url")
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return errors.WrapFatal(
			fmt.Errorf("metrics.port out of range: %d: %w", c.Metrics.Port, errors.ErrInvalidConfig),
			"config", "Validate", "check ports")
	}
	if c.Health.Port < 0 || c.Health.Port > 65535 {
		return errors.WrapFatal(
			fmt.Errorf("health.port out of range: %d: %w", c.Health.Port, errors.ErrInvalidConfig),
			"config", "Validate", "check ports")
	}
	return nil
}

// ObjectStoreEnabled reports whether the object-store fallback is configured.
func (c *Config) ObjectStoreEnabled() bool {
	return c.Taxonomy.ObjectStore.BucketName != ""
}
