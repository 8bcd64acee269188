// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Warmer eagerly initializes lazily loaded resources.
// *recommend.Engine implements it.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmupConfig configures the warmup service.
type WarmupConfig struct {
	// Enabled runs the warmup when the service starts. When false the
	// service only idles and the engine initializes on first request.
	Enabled bool

	// Timeout bounds a single warmup attempt. Default: 30m
	Timeout time.Duration
}

// WarmupService loads the catalog and semantic index once at startup.
//
// A failed attempt is returned to suture, which restarts the service with
// its failure backoff. After success the service idles until shutdown.
type WarmupService struct {
	warmer Warmer
	config WarmupConfig
	logger zerolog.Logger
	name   string
}

// NewWarmupService creates a new warmup service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(warmer Warmer, cfg WarmupConfig, logger zerolog.Logger) *WarmupService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &WarmupService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "warmup").Logger(),
		name:   "index-warmup",
	}
}

// Serve implements suture.Service.
func (s *WarmupService) Serve(ctx context.Context) error {
	if s.config.Enabled {
		if err := s.warm(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn().Err(err).Msg("Warmup failed, will retry after backoff")
			return err
		}
	} else {
		s.logger.Debug().Msg("Warmup disabled, resources load on first request")
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *WarmupService) warm(ctx context.Context) error {
	warmCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Msg("Warming catalog and semantic index")

	if err := s.warmer.Warm(warmCtx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("Warmup complete")
	return nil
}

// String returns the service name for logging.
func (s *WarmupService) String() string {
	return s.name
}
