// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiration.

Two callers use it:
  - the recommendation engine caches shaped id-path results per (id, top_k)
  - the embedding layer caches query vectors per normalised query text

Expiration is lazy: expired entries are dropped when touched or by
CleanupExpired. Capacity eviction is O(1) via a doubly-linked list.

# Usage

	c := cache.NewLRU[[]float32](1024, 10*time.Minute)
	c.Add("dry sake", vec)
	if v, ok := c.Get("dry sake"); ok {
	    ...
	}
*/
package cache
