// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/config"
)

// NewBlobStore opens the backend selected by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBlobStore(ctx context.Context, cfg *config.IndexConfig, logger zerolog.Logger) (BlobStore, error) {
	switch cfg.Backend {
	case config.IndexBackendBadger:
		if err := os.MkdirAll(cfg.BadgerPath, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for index storage
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		store, err := OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", store.Name()).Str("path", cfg.BadgerPath).Msg("Index blob store opened")
		return store, nil

	case config.IndexBackendRedis:
		store, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("backend", store.Name()).Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("Index blob store opened")
		return store, nil

	case config.IndexBackendMemory:
		logger.Info().Str("backend", "memory").Msg("Index blob store is in-memory; vectors are rebuilt on every start")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}
