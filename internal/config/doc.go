// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package config provides centralized configuration management for flavorrank.

# Configuration Sources

Configuration is layered with Koanf v2, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or /etc/flavorrank/
 3. Environment variables, mapped explicitly through envMappings

# Configuration Structure

  - ServerConfig: HTTP listener and timeouts
  - CatalogConfig: products table source (DuckDB file, PostgreSQL, CSV) and imputation
  - RecommendConfig: neighbor count, text search limits, degraded-path seed, result cache
  - EmbeddingConfig: frozen text encoder (onnx, http, hash) and its batching
  - IndexConfig: semantic index blob cache backend and invalidation mode
  - SecurityConfig: CORS and rate limiting
  - LoggingConfig: zerolog level and format

# Example config.yaml

	catalog:
	  source: postgres
	  postgres_dsn: "host=db dbname=sake user=reader"
	  fallback_to_csv: true
	embedding:
	  provider: http
	  http:
	    endpoint: http://embedder:8080/v1
	index:
	  backend: redis
	  redis_addr: redis:6379

# Thread Safety

Config is immutable after Load() and safe for concurrent read access.
*/
package config
