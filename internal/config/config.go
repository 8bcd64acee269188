// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (config.yaml, or CONFIG_PATH)
//  3. Environment Variables: override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Index     IndexConfig     `koanf:"index"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // Per-request handler timeout
	ReadTimeout     time.Duration `koanf:"read_timeout"`     // http.Server ReadTimeout
	WriteTimeout    time.Duration `koanf:"write_timeout"`    // http.Server WriteTimeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Graceful shutdown budget
}

// Catalog source kinds.
const (
	CatalogSourceDuckDB   = "duckdb"
	CatalogSourcePostgres = "postgres"
	CatalogSourceCSV      = "csv"
)

// CatalogConfig describes where the products table is read from.
//
// Environment Variables:
//   - CATALOG_SOURCE: duckdb, postgres or csv (default: duckdb)
//   - CATALOG_DUCKDB_PATH: DuckDB file holding the products table
//   - CATALOG_POSTGRES_DSN: libpq connection string for the postgres source
//   - CATALOG_TABLE: table name (default: products)
//   - CATALOG_CSV_PATH: CSV fallback file (default: data/liquors.csv)
//   - CATALOG_FALLBACK_TO_CSV: use the CSV file when the primary source fails (default: true)
//   - CATALOG_IMPUTE_MEDIAN: fill numeric gaps with the column median (default: true)
type CatalogConfig struct {
	Source        string        `koanf:"source"`
	DuckDBPath    string        `koanf:"duckdb_path"`
	PostgresDSN   string        `koanf:"postgres_dsn"`
	Table         string        `koanf:"table"`
	CSVPath       string        `koanf:"csv_path"`
	FallbackToCSV bool          `koanf:"fallback_to_csv"`
	ImputeMedian  bool          `koanf:"impute_median"`
	LoadTimeout   time.Duration `koanf:"load_timeout"`
}

// RecommendConfig holds engine tuning that is safe to change per deployment.
// The scoring weights are fixed and deliberately not configurable.
type RecommendConfig struct {
	Neighbors   int           `koanf:"neighbors"`     // K for the nearest-neighbor search (default: 20)
	DefaultTopK int           `koanf:"default_top_k"` // Text search result count when none is given (default: 5)
	MaxTopK     int           `koanf:"max_top_k"`     // Upper bound for text search top_k (default: 50)
	Seed        int64         `koanf:"seed"`          // RNG seed for the degraded sampling path
	CacheSize   int           `koanf:"cache_size"`    // Entries in the id-result cache, 0 disables it
	CacheTTL    time.Duration `koanf:"cache_ttl"`
}

// Embedding providers.
const (
	EmbeddingProviderONNX = "onnx"
	EmbeddingProviderHTTP = "http"
	EmbeddingProviderHash = "hash"
)

// EmbeddingConfig selects and configures the frozen text encoder.
type EmbeddingConfig struct {
	Provider       string `koanf:"provider"`
	ModelID        string `koanf:"model_id"`
	Dimension      int    `koanf:"dimension"`
	BatchSize      int    `koanf:"batch_size"`
	Concurrency    int    `koanf:"concurrency"`
	QueryCacheSize int    `koanf:"query_cache_size"` // Cached query embeddings, 0 disables

	ONNX ONNXConfig `koanf:"onnx"`
	HTTP HTTPConfig `koanf:"http"`
}

// ONNXConfig points at a local sentence-transformer export.
type ONNXConfig struct {
	LibraryPath   string `koanf:"library_path"` // onnxruntime shared library
	ModelPath     string `koanf:"model_path"`
	TokenizerPath string `koanf:"tokenizer_path"` // HuggingFace tokenizer.json
	MaxSeqLen     int    `koanf:"max_seq_len"`
	OutputName    string `koanf:"output_name"`
}

// HTTPConfig configures an OpenAI-compatible /embeddings endpoint.
type HTTPConfig struct {
	Endpoint string        `koanf:"endpoint"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`

	// Circuit breaker
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
}

// Index cache backends and validation modes.
const (
	IndexBackendBadger = "badger"
	IndexBackendRedis  = "redis"
	IndexBackendMemory = "memory"

	IndexValidateFingerprint = "fingerprint"
	IndexValidateShape       = "shape"
)

// IndexConfig configures where the semantic index vectors are cached.
type IndexConfig struct {
	Backend     string        `koanf:"backend"`
	BadgerPath  string        `koanf:"badger_path"`
	RedisAddr   string        `koanf:"redis_addr"`
	RedisDB     int           `koanf:"redis_db"`
	RedisTTL    time.Duration `koanf:"redis_ttl"` // 0 keeps the blob forever
	Validation  string        `koanf:"validation"`
	WarmOnStart bool          `koanf:"warm_on_start"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
