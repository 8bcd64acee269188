// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed by the API router on /metrics.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Catalog loads (source, outcome, item count)
  - Recommendation requests per path, degraded sampling and result cache efficiency
  - Semantic index builds and cache validation outcomes
  - Text encoder calls and the HTTP encoder circuit breaker
  - Index blob store operations per backend

# Usage

Callers use the Record* helpers rather than touching collectors directly:

	metrics.RecordRecommendation(metrics.PathByID, "success", time.Since(start))
	metrics.RecordIndexBuild("cache_hit", n, time.Since(start))
*/
package metrics
