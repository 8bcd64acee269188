// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
	"github.com/tomtom215/flavorrank/internal/recommend/reranking"
)

// Config holds engine tuning. The scoring weights live in package reranking
// and are not configurable.
type Config struct {
	// Neighbors is K for the nearest-neighbor search.
	// Default: 20.
	Neighbors int `json:"neighbors"`

	// MaxResults caps the id-path response.
	// Default: 5.
	MaxResults int `json:"max_results"`

	// DefaultTopK is used by the text path when top_k is not positive.
	// Default: 5.
	DefaultTopK int `json:"default_top_k"`

	// MaxTopK caps top_k on the text path.
	// Default: 50.
	MaxTopK int `json:"max_top_k"`

	// Seed drives the degraded random sampling.
	// Default: 42.
	Seed int64 `json:"seed"`

	Cache CacheConfig `json:"cache"`
}

// CacheConfig configures the id-path result cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 10m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 1024.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:   algorithms.DefaultK,
		MaxResults:  reranking.MaxResults,
		DefaultTopK: 5,
		MaxTopK:     50,
		Seed:        42,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// FromAppConfig maps the application's recommend section onto an engine
// Config. Zero values keep the defaults.
func FromAppConfig(rc *config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	if rc == nil {
		return cfg
	}
	if rc.Neighbors > 0 {
		cfg.Neighbors = rc.Neighbors
	}
	if rc.DefaultTopK > 0 {
		cfg.DefaultTopK = rc.DefaultTopK
	}
	if rc.MaxTopK > 0 {
		cfg.MaxTopK = rc.MaxTopK
	}
	if rc.Seed != 0 {
		cfg.Seed = rc.Seed
	}
	cfg.Cache.Enabled = rc.CacheSize > 0
	if rc.CacheSize > 0 {
		cfg.Cache.MaxEntries = rc.CacheSize
	}
	if rc.CacheTTL > 0 {
		cfg.Cache.TTL = rc.CacheTTL
	}
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.MaxResults < 1 || c.MaxResults > reranking.MaxResults {
		return fmt.Errorf("max_results must be in [1, %d], got %d", reranking.MaxResults, c.MaxResults)
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("max_top_k must be >= default_top_k, got %d < %d", c.MaxTopK, c.DefaultTopK)
	}
	if c.Cache.Enabled {
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
