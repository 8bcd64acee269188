// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package api exposes the recommendation engine over HTTP using the chi router.

# Endpoints

	GET  /health                   liveness plus catalog/index readiness
	GET  /recommend/{id}           similar items for a catalog id
	POST /recommend-by-text        semantic search, body {"query": "...", "top_k": 5}
	GET  /metrics                  Prometheus exposition

	POST /api/v1/recommend/flavor-profile
	    cosine match on f1..f6, body {"f1": 0.8, ..., "f6": 0.2, "topK": 15};
	    every field optional, intensities in [0, 1]

Versioned aliases live under /api/v1: /api/v1/health, /api/v1/recommend/{id}
and /api/v1/recommend/text.

Any integer id is passed to the engine; ids missing from the catalog,
negative ones included, are 404.

# Responses

Recommendation endpoints wrap their payload in APIResponse:

	{
	  "success": true,
	  "data": [ ... ],
	  "meta": {"requestId": "...", "count": 5, "degraded": false, ...}
	}

Errors carry a machine-readable code:

	400 INVALID_ID, INVALID_JSON, VALIDATION_FAILED
	404 NOT_FOUND
	429 TOO_MANY_REQUESTS
	503 SERVICE_UNAVAILABLE (semantic search not configured, handler timeout)
	500 INTERNAL_ERROR

# Middleware

Every route passes through request ID, real IP, request logging, panic
recovery, CORS, Prometheus instrumentation and gzip compression. The
recommend routes additionally get a per-IP httprate limiter and a handler
timeout (server.timeout, default 10s).
*/
package api
