// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation paths used as label values.
const (
	PathByID     = "id"
	PathByText   = "text"
	PathByFlavor = "flavor"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Catalog Metrics
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog load attempts by source and outcome",
		},
		[]string{"source", "result"}, // result: "success", "failure"
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_load_duration_seconds",
			Help:    "Time spent loading the catalog",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the loaded catalog",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Recommendation requests by path and outcome",
		},
		[]string{"path", "result"}, // result: "success", "not_found", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Recommendation computation time by path",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"path"},
	)

	RecommendDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_degraded_total",
			Help: "Id-path requests that fell back to random sampling (empty feature vocabulary)",
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Id-path responses served from the result cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Id-path requests not found in the result cache",
		},
	)

	// Semantic Index Metrics
	IndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "semantic_index_builds_total",
			Help: "Semantic index initializations by outcome",
		},
		[]string{"outcome"}, // "cache_hit", "rebuilt", "invalid_cache", "failed"
	)

	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "semantic_index_build_duration_seconds",
			Help:    "Time to build or load the semantic index",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	IndexVectors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "semantic_index_vectors",
			Help: "Number of item vectors in the semantic index",
		},
	)

	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Calls to the text encoder by provider and outcome",
		},
		[]string{"provider", "result"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Text encoder call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	EmbeddingTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_texts_total",
			Help: "Texts sent to the encoder",
		},
		[]string{"provider"},
	)

	EmbeddingQueryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_query_cache_hits_total",
			Help: "Query embeddings served from the in-memory cache",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Blob Store Metrics
	BlobStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "index_blob_operations_total",
			Help: "Index blob store operations by backend, operation and result",
		},
		[]string{"backend", "operation", "result"}, // result: "success", "miss", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogLoad records one catalog load attempt.
func RecordCatalogLoad(source string, ok bool, items int, duration time.Duration) {
	if !ok {
		CatalogLoads.WithLabelValues(source, "failure").Inc()
		return
	}
	CatalogLoads.WithLabelValues(source, "success").Inc()
	CatalogLoadDuration.Observe(duration.Seconds())
	CatalogItems.Set(float64(items))
}

// RecordRecommendation records a finished recommendation request.
func RecordRecommendation(path, result string, duration time.Duration) {
	RecommendRequests.WithLabelValues(path, result).Inc()
	RecommendDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordIndexBuild records a semantic index initialization.
func RecordIndexBuild(outcome string, vectors int, duration time.Duration) {
	IndexBuilds.WithLabelValues(outcome).Inc()
	IndexBuildDuration.Observe(duration.Seconds())
	if vectors > 0 {
		IndexVectors.Set(float64(vectors))
	}
}

// RecordEmbedding records one encoder call.
func RecordEmbedding(provider string, texts int, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EmbeddingRequests.WithLabelValues(provider, result).Inc()
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
	EmbeddingTexts.WithLabelValues(provider).Add(float64(texts))
}

// RecordBlobOperation records an index blob store operation.
func RecordBlobOperation(backend, operation, result string) {
	BlobStoreOperations.WithLabelValues(backend, operation, result).Inc()
}

// RecordBreakerTransition updates circuit breaker gauges on a state change.
// States are encoded 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name string, from, to int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(to))
	CircuitBreakerTransitions.WithLabelValues(name, breakerStateName(from), breakerStateName(to)).Inc()
}

func breakerStateName(state int) string {
	switch state {
	case 0:
		return "closed"
	case 1:
		return "half-open"
	case 2:
		return "open"
	default:
		return "unknown_" + strconv.Itoa(state)
	}
}
