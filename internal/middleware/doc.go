// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package middleware provides HTTP middleware components for the API server.

All middleware use the standard func(http.Handler) http.Handler shape so
they compose with chi's router.

Key Components:

  - RequestID: UUID-based request tracking, honouring X-Request-ID from upstream
  - PrometheusMetrics: request count, latency and in-flight gauge per chi route
  - RequestLogger: one zerolog line per request, warn above a latency threshold
  - Compression: gzip for clients that send Accept-Encoding: gzip

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger, time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

RequestID should run first so every later layer can read the ID with
GetRequestID or logging.RequestIDFromContext.

Metrics Cardinality:

PrometheusMetrics labels requests with the matched route pattern
(for example /recommend/{id}) rather than the raw path. Requests that match
no route share the "unmatched" label.
*/
package middleware
