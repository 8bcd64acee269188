// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/cache"
	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/embedding"
	"github.com/tomtom215/flavorrank/internal/logging"
	"github.com/tomtom215/flavorrank/internal/metrics"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
	"github.com/tomtom215/flavorrank/internal/recommend/reranking"
	"github.com/tomtom215/flavorrank/internal/semantic"
)

// Engine serves both recommendation paths over a lazily loaded catalog and
// semantic index. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalogs CatalogProvider
	indexes  IndexProvider
	embedder embedding.Embedder

	catalog lazyValue[catalog.Store]
	index   lazyValue[semantic.Index]

	generator *algorithms.CandidateGenerator
	scorer    *reranking.CriterionScorer

	// id-path responses keyed by item id; nil when disabled
	cache *cache.LRU[*Response]
}

// NewEngine creates an engine. Nothing is loaded until first use or Warm.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalogs CatalogProvider, indexes IndexProvider, embedder embedding.Embedder, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalogs == nil {
		return nil, errors.New("catalog provider is required")
	}

	e := &Engine{
		config:    cfg.Clone(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalogs:  catalogs,
		indexes:   indexes,
		embedder:  embedder,
		generator: algorithms.NewCandidateGenerator(cfg.Seed),
		scorer:    reranking.NewCriterionScorer(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return e, nil
}

// Catalog returns the catalog, loading it on first use.
func (e *Engine) Catalog(ctx context.Context) (*catalog.Store, error) {
	return e.catalog.get(ctx, e.catalogs.LoadCatalog)
}

// Index returns the semantic index, building or loading it on first use.
func (e *Engine) Index(ctx context.Context) (*semantic.Index, error) {
	if e.indexes == nil || e.embedder == nil {
		return nil, ErrSemanticDisabled
	}
	return e.index.get(ctx, func(ctx context.Context) (*semantic.Index, error) {
		store, err := e.Catalog(ctx)
		if err != nil {
			return nil, err
		}
		return e.indexes.BuildOrLoad(ctx, store)
	})
}

// Warm loads the catalog and, when semantic search is configured, the index.
func (e *Engine) Warm(ctx context.Context) error {
	if _, err := e.Catalog(ctx); err != nil {
		return fmt.Errorf("warm catalog: %w", err)
	}
	if e.indexes == nil || e.embedder == nil {
		return nil
	}
	if _, err := e.Index(ctx); err != nil {
		return fmt.Errorf("warm semantic index: %w", err)
	}
	return nil
}

// Status reports which resources are initialized.
func (e *Engine) Status() Status {
	var s Status
	if store := e.catalog.peek(); store != nil {
		s.CatalogReady = true
		s.CatalogItems = store.Len()
	}
	if idx := e.index.peek(); idx != nil {
		s.IndexReady = true
		s.IndexModel = idx.ModelID()
	}
	return s
}

// RecommendByID returns up to MaxResults items similar to the item with id,
// never including that item. It returns an error wrapping ErrNotFound when
// id is not in the catalog.
func (e *Engine) RecommendByID(ctx context.Context, id catalog.ItemID) (*Response, error) {
	start := time.Now()
	logger := e.requestLogger(ctx).With().Int64("item_id", int64(id)).Logger()

	store, err := e.Catalog(ctx)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByID, "error", time.Since(start))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if resp := e.cachedResponse(id, start); resp != nil {
		logger.Debug().Msg("cache hit")
		metrics.RecordRecommendation(metrics.PathByID, "success", time.Since(start))
		return resp, nil
	}

	query, ok := store.Lookup(id)
	if !ok {
		metrics.RecordRecommendation(metrics.PathByID, "not_found", time.Since(start))
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	set, err := e.generator.FindCandidates(ctx, store, query, e.config.Neighbors)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByID, "error", time.Since(start))
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	if set.Degraded {
		metrics.RecommendDegraded.Inc()
		logger.Warn().
			Int("candidates", len(set.Candidates)).
			Msg("Item has no brand or flavour tags, falling back to random candidates")
	}

	ranked := e.scorer.Rank(store, query, set.Candidates)
	selected := reranking.Select(store, ranked, query, e.config.MaxResults)

	results := make([]Result, len(selected))
	for i, s := range selected {
		results[i] = Shape(store.Item(s.Row), i+1)
	}

	qid := int64(id)
	resp := &Response{
		Results:  results,
		Degraded: set.Degraded,
		Metadata: ResponseMetadata{
			Path:       metrics.PathByID,
			QueryID:    &qid,
			Candidates: len(set.Candidates),
			Vocabulary: len(set.Vocabulary),
			LatencyMS:  time.Since(start).Milliseconds(),
			Timestamp:  time.Now(),
		},
	}

	// Degraded responses are random and would pin one sample.
	if e.cache != nil && !resp.Degraded {
		e.cache.Add(cacheKey(id), resp)
	}

	logger.Debug().
		Int("candidates", len(set.Candidates)).
		Int("returned", len(results)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")
	metrics.RecordRecommendation(metrics.PathByID, "success", time.Since(start))

	return resp, nil
}

// RecommendByText returns the topK items whose descriptions are most similar
// to query. topK <= 0 uses DefaultTopK and larger values are capped at
// MaxTopK. An empty or unmatched query still returns a ranking.
func (e *Engine) RecommendByText(ctx context.Context, query string, topK int) (*Response, error) {
	start := time.Now()
	logger := e.requestLogger(ctx)

	topK = e.clampTopK(topK)

	store, err := e.Catalog(ctx)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByText, "error", time.Since(start))
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	idx, err := e.Index(ctx)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByText, "error", time.Since(start))
		return nil, fmt.Errorf("load semantic index: %w", err)
	}

	matches, err := idx.Query(ctx, e.embedder, query, topK)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByText, "error", time.Since(start))
		return nil, fmt.Errorf("semantic query: %w", err)
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = ShapeSemantic(store.Item(m.Row), m.Similarity, i+1)
	}

	resp := &Response{
		Results: results,
		Metadata: ResponseMetadata{
			Path:       metrics.PathByText,
			Query:      query,
			Candidates: idx.Rows(),
			Model:      idx.ModelID(),
			LatencyMS:  time.Since(start).Milliseconds(),
			Timestamp:  time.Now(),
		},
	}

	logger.Debug().
		Int("top_k", topK).
		Int("returned", len(results)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("text search complete")
	metrics.RecordRecommendation(metrics.PathByText, "success", time.Since(start))

	return resp, nil
}

// RecommendByFlavorProfile ranks every item by cosine similarity between its
// f1..f6 intensities and profile. Unset profile dimensions default to 0.5 and
// missing item values count as 0. topK <= 0 selects
// algorithms.DefaultFlavorTopK; larger values are capped at MaxTopK.
func (e *Engine) RecommendByFlavorProfile(ctx context.Context, profile algorithms.FlavorProfile, topK int) (*Response, error) {
	start := time.Now()
	logger := e.requestLogger(ctx)

	if topK <= 0 {
		topK = algorithms.DefaultFlavorTopK
	}
	topK = min(topK, e.config.MaxTopK)

	store, err := e.Catalog(ctx)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByFlavor, "error", time.Since(start))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	matches, err := algorithms.RankByFlavorProfile(ctx, store, profile, topK)
	if err != nil {
		metrics.RecordRecommendation(metrics.PathByFlavor, "error", time.Since(start))
		return nil, fmt.Errorf("rank flavor profile: %w", err)
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = ShapeSemantic(store.Item(m.Row), m.Similarity, i+1)
	}

	resp := &Response{
		Results: results,
		Metadata: ResponseMetadata{
			Path:       metrics.PathByFlavor,
			Candidates: store.Len(),
			LatencyMS:  time.Since(start).Milliseconds(),
			Timestamp:  time.Now(),
		},
	}

	logger.Debug().
		Int("top_k", topK).
		Int("returned", len(results)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("flavor profile search complete")
	metrics.RecordRecommendation(metrics.PathByFlavor, "success", time.Since(start))

	return resp, nil
}

// ClearCache drops every cached id-path response.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

func (e *Engine) clampTopK(topK int) int {
	if topK <= 0 {
		return e.config.DefaultTopK
	}
	return min(topK, e.config.MaxTopK)
}

// cachedResponse returns a copy of a cached response marked as a cache hit.
func (e *Engine) cachedResponse(id catalog.ItemID, start time.Time) *Response {
	if e.cache == nil {
		return nil
	}
	cached, ok := e.cache.Get(cacheKey(id))
	if !ok {
		metrics.RecommendCacheMisses.Inc()
		return nil
	}
	metrics.RecommendCacheHits.Inc()

	resp := *cached
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	return &resp
}

func (e *Engine) requestLogger(ctx context.Context) zerolog.Logger {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return e.logger.With().Str("request_id", id).Logger()
	}
	return e.logger
}

func cacheKey(id catalog.ItemID) string {
	return "id:" + strconv.FormatInt(int64(id), 10)
}
