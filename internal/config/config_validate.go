// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateServer validates the HTTP listener settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

// tableNamePattern restricts CATALOG_TABLE to a plain or schema-qualified identifier.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case CatalogSourceDuckDB:
		if c.Catalog.DuckDBPath == "" {
			return fmt.Errorf("CATALOG_DUCKDB_PATH is required when CATALOG_SOURCE=duckdb")
		}
	case CatalogSourcePostgres:
		if c.Catalog.PostgresDSN == "" {
			return fmt.Errorf("CATALOG_POSTGRES_DSN (or DATABASE_URL) is required when CATALOG_SOURCE=postgres")
		}
	case CatalogSourceCSV:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: duckdb, postgres, csv (got %q)", c.Catalog.Source)
	}

	if !tableNamePattern.MatchString(c.Catalog.Table) {
		return fmt.Errorf("CATALOG_TABLE %q is not a valid table identifier", c.Catalog.Table)
	}
	if (c.Catalog.Source == CatalogSourceCSV || c.Catalog.FallbackToCSV) && c.Catalog.CSVPath == "" {
		return fmt.Errorf("CATALOG_CSV_PATH is required for the csv source or CSV fallback")
	}
	if c.Catalog.LoadTimeout <= 0 {
		return fmt.Errorf("CATALOG_LOAD_TIMEOUT must be positive, got %v", c.Catalog.LoadTimeout)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.Neighbors < 1 {
		return fmt.Errorf("RECOMMEND_NEIGHBORS must be at least 1, got %d", r.Neighbors)
	}
	if r.DefaultTopK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_K must be at least 1, got %d", r.DefaultTopK)
	}
	if r.MaxTopK < r.DefaultTopK {
		return fmt.Errorf("RECOMMEND_MAX_TOP_K (%d) must be >= RECOMMEND_DEFAULT_TOP_K (%d)", r.MaxTopK, r.DefaultTopK)
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be non-negative, got %d", r.CacheSize)
	}
	if r.CacheSize > 0 && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	e := c.Embedding
	if e.ModelID == "" {
		return fmt.Errorf("EMBEDDING_MODEL_ID is required")
	}
	if e.Dimension < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be at least 1, got %d", e.Dimension)
	}
	if e.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be at least 1, got %d", e.BatchSize)
	}
	if e.Concurrency < 1 {
		return fmt.Errorf("EMBEDDING_CONCURRENCY must be at least 1, got %d", e.Concurrency)
	}

	switch e.Provider {
	case EmbeddingProviderONNX:
		if e.ONNX.ModelPath == "" || e.ONNX.TokenizerPath == "" {
			return fmt.Errorf("EMBEDDING_ONNX_MODEL_PATH and EMBEDDING_ONNX_TOKENIZER_PATH are required for the onnx provider")
		}
		if e.ONNX.MaxSeqLen < 8 {
			return fmt.Errorf("EMBEDDING_ONNX_MAX_SEQ_LEN must be at least 8, got %d", e.ONNX.MaxSeqLen)
		}
	case EmbeddingProviderHTTP:
		if !strings.HasPrefix(e.HTTP.Endpoint, "http://") && !strings.HasPrefix(e.HTTP.Endpoint, "https://") {
			return fmt.Errorf("EMBEDDING_HTTP_ENDPOINT must be an http(s) URL, got %q", e.HTTP.Endpoint)
		}
		if e.HTTP.BreakerFailureRatio <= 0 || e.HTTP.BreakerFailureRatio > 1 {
			return fmt.Errorf("EMBEDDING_BREAKER_FAILURE_RATIO must be in (0, 1], got %f", e.HTTP.BreakerFailureRatio)
		}
	case EmbeddingProviderHash:
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: onnx, http, hash (got %q)", e.Provider)
	}
	return nil
}

func (c *Config) validateIndex() error {
	switch c.Index.Backend {
	case IndexBackendBadger:
		if c.Index.BadgerPath == "" {
			return fmt.Errorf("INDEX_BADGER_PATH is required when INDEX_BACKEND=badger")
		}
	case IndexBackendRedis:
		if c.Index.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when INDEX_BACKEND=redis")
		}
	case IndexBackendMemory:
	default:
		return fmt.Errorf("INDEX_BACKEND must be one of: badger, redis, memory (got %q)", c.Index.Backend)
	}

	switch c.Index.Validation {
	case IndexValidateFingerprint, IndexValidateShape:
	default:
		return fmt.Errorf("INDEX_VALIDATION must be fingerprint or shape (got %q)", c.Index.Validation)
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error (got %q)", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.Logging.Format)
	}
	return nil
}
