// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/config"
)

// New creates the provider selected by cfg.Provider. When QueryCacheSize is
// positive the provider is wrapped in a CachedEmbedder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.EmbeddingConfig, logger zerolog.Logger) (Embedder, error) {
	var (
		e   Embedder
		err error
	)

	switch cfg.Provider {
	case config.EmbeddingProviderONNX:
		e, err = NewONNXEmbedder(cfg, logger)
	case config.EmbeddingProviderHTTP:
		e = NewHTTPEmbedder(cfg, logger)
	case config.EmbeddingProviderHash:
		e = NewHashEmbedder(cfg.Dimension)
	default:
		err = fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.QueryCacheSize > 0 {
		return NewCachedEmbedder(e, cfg.QueryCacheSize), nil
	}
	return e, nil
}
