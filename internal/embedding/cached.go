// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"context"
	"time"

	"github.com/tomtom215/flavorrank/internal/cache"
	"github.com/tomtom215/flavorrank/internal/metrics"
)

// queryCacheTTL bounds how long a query vector is reused.
const queryCacheTTL = time.Hour

// CachedEmbedder memoises vectors per normalised text in an LRU.
type CachedEmbedder struct {
	Embedder
	lru *cache.LRU[[]float32]
}

// NewCachedEmbedder wraps inner with an LRU of size entries.
func NewCachedEmbedder(inner Embedder, size int) *CachedEmbedder {
	return &CachedEmbedder{Embedder: inner, lru: cache.NewLRU[[]float32](size, queryCacheTTL)}
}

// Embed serves cached vectors and encodes only the misses, in one call.
// Returned vectors are shared with the cache and must not be modified.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		missIdx  []int
		missText []string
	)
	for i, t := range texts {
		key := NormalizeText(t)
		if v, ok := c.lru.Get(key); ok {
			metrics.EmbeddingQueryCacheHits.Inc()
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missText = append(missText, t)
	}
	if len(missText) == 0 {
		return out, nil
	}

	vecs, err := c.Embedder.Embed(ctx, missText)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		c.lru.Add(NormalizeText(missText[j]), vecs[j])
	}
	return out, nil
}

// Uncached returns the provider behind a CachedEmbedder, or e itself.
// Bulk index builds use it so catalog descriptions do not evict queries.
func Uncached(e Embedder) Embedder {
	if c, ok := e.(*CachedEmbedder); ok {
		return c.Embedder
	}
	return e
}
