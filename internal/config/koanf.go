// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/flavorrank/config.yaml",
	"/etc/flavorrank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         10 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:        CatalogSourceDuckDB,
			DuckDBPath:    "data/catalog.duckdb",
			Table:         "products",
			CSVPath:       "data/liquors.csv",
			FallbackToCSV: true,
			ImputeMedian:  true,
			LoadTimeout:   2 * time.Minute,
		},
		Recommend: RecommendConfig{
			Neighbors:   20,
			DefaultTopK: 5,
			MaxTopK:     50,
			Seed:        42,
			CacheSize:   1024,
			CacheTTL:    10 * time.Minute,
		},
		Embedding: EmbeddingConfig{
			Provider:       EmbeddingProviderONNX,
			ModelID:        "paraphrase-multilingual-MiniLM-L12-v2",
			Dimension:      384,
			BatchSize:      64,
			Concurrency:    2,
			QueryCacheSize: 512,
			ONNX: ONNXConfig{
				LibraryPath:   "",
				ModelPath:     "models/paraphrase-multilingual-MiniLM-L12-v2/model.onnx",
				TokenizerPath: "models/paraphrase-multilingual-MiniLM-L12-v2/tokenizer.json",
				MaxSeqLen:     128,
				OutputName:    "last_hidden_state",
			},
			HTTP: HTTPConfig{
				Endpoint:            "http://localhost:11434/v1",
				Timeout:             30 * time.Second,
				BreakerMaxRequests:  3,
				BreakerInterval:     time.Minute,
				BreakerTimeout:      30 * time.Second,
				BreakerFailureRatio: 0.6,
				BreakerMinRequests:  5,
			},
		},
		Index: IndexConfig{
			Backend:     IndexBackendBadger,
			BadgerPath:  "data/index",
			RedisAddr:   "localhost:6379",
			Validation:  IndexValidateFingerprint,
			WarmOnStart: true,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf with layered sources:
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// The returned Config has been validated.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment, e.g. EMBEDDING_PROVIDER -> embedding.provider
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they come from env vars.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated strings to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Catalog
	"catalog_source":          "catalog.source",
	"catalog_duckdb_path":     "catalog.duckdb_path",
	"catalog_postgres_dsn":    "catalog.postgres_dsn",
	"database_url":            "catalog.postgres_dsn",
	"catalog_table":           "catalog.table",
	"catalog_csv_path":        "catalog.csv_path",
	"catalog_fallback_to_csv": "catalog.fallback_to_csv",
	"catalog_impute_median":   "catalog.impute_median",
	"catalog_load_timeout":    "catalog.load_timeout",

	// Recommend
	"recommend_neighbors":     "recommend.neighbors",
	"recommend_default_top_k": "recommend.default_top_k",
	"recommend_max_top_k":     "recommend.max_top_k",
	"recommend_seed":          "recommend.seed",
	"recommend_cache_size":    "recommend.cache_size",
	"recommend_cache_ttl":     "recommend.cache_ttl",

	// Embedding
	"embedding_provider":              "embedding.provider",
	"embedding_model_id":              "embedding.model_id",
	"embedding_dimension":             "embedding.dimension",
	"embedding_batch_size":            "embedding.batch_size",
	"embedding_concurrency":           "embedding.concurrency",
	"embedding_query_cache_size":      "embedding.query_cache_size",
	"onnxruntime_library_path":        "embedding.onnx.library_path",
	"embedding_onnx_model_path":       "embedding.onnx.model_path",
	"embedding_onnx_tokenizer_path":   "embedding.onnx.tokenizer_path",
	"embedding_onnx_max_seq_len":      "embedding.onnx.max_seq_len",
	"embedding_onnx_output_name":      "embedding.onnx.output_name",
	"embedding_http_endpoint":         "embedding.http.endpoint",
	"embedding_http_api_key":          "embedding.http.api_key",
	"embedding_http_timeout":          "embedding.http.timeout",
	"embedding_breaker_max_requests":  "embedding.http.breaker_max_requests",
	"embedding_breaker_interval":      "embedding.http.breaker_interval",
	"embedding_breaker_timeout":       "embedding.http.breaker_timeout",
	"embedding_breaker_failure_ratio": "embedding.http.breaker_failure_ratio",
	"embedding_breaker_min_requests":  "embedding.http.breaker_min_requests",

	// Index
	"index_backend":       "index.backend",
	"index_badger_path":   "index.badger_path",
	"redis_addr":          "index.redis_addr",
	"redis_db":            "index.redis_db",
	"index_redis_ttl":     "index.redis_ttl",
	"index_validation":    "index.validation",
	"index_warm_on_start": "index.warm_on_start",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// It returns "" for variables that are not part of the configuration, which
// makes koanf skip them.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - EMBEDDING_PROVIDER -> embedding.provider
//   - DATABASE_URL -> catalog.postgres_dsn
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
