// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package recommend serves beverage recommendations over an in-memory catalog.
//
// # Architecture
//
// The engine exposes two independent paths:
//
//   - By id: binary brand/tag features, exact nearest-neighbor search
//     (algorithms), Gaussian criterion re-ranking and name-deduplicating
//     selection (reranking), at most five results.
//   - By text: a frozen sentence encoder and a cached vector index
//     (semantic), ranked by cosine similarity.
//
// Both paths finish in the result shaper, which rounds numeric fields and
// maps missing values to null.
//
// # Initialization
//
// The catalog and the semantic index are built on first use, or eagerly by
// Warm. Concurrent first callers share a single build and a failed build is
// retried on the next request. Once built, both are immutable.
//
// # Degraded Mode
//
// An item with neither a brand nor flavour tags has an empty feature
// vocabulary. Its candidates are drawn at random instead, and the response
// carries Degraded = true. This is logged at warn level and counted, but is
// not an error.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), loader, builder, embedder, logger)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := engine.RecommendByID(ctx, 1042)
//	if errors.Is(err, recommend.ErrNotFound) {
//	    // 404
//	}
//
//	resp, err = engine.RecommendByText(ctx, "dry and crisp with citrus", 5)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Per-request state is never shared; the
// degraded-mode random source is guarded by a mutex.
package recommend
