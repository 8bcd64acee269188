// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/api"
	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/embedding"
	"github.com/tomtom215/flavorrank/internal/logging"
	"github.com/tomtom215/flavorrank/internal/recommend"
	"github.com/tomtom215/flavorrank/internal/recommend/storage"
	"github.com/tomtom215/flavorrank/internal/semantic"
	"github.com/tomtom215/flavorrank/internal/supervisor"
	"github.com/tomtom215/flavorrank/internal/supervisor/services"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	buildIndex := flag.Bool("build-index", false, "build the semantic index into the blob cache and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("flavorrank", version)
		return
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("catalog_source", cfg.Catalog.Source).
		Str("embedding_provider", cfg.Embedding.Provider).
		Str("index_backend", cfg.Index.Backend).
		Msg("Starting Flavorrank")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *buildIndex); err != nil {
		logger.Error().Err(err).Msg("Flavorrank exited with error")
		stop()
		os.Exit(1)
	}
}

// components are the long-lived objects shared by the server and the
// -build-index mode.
type components struct {
	engine   *recommend.Engine
	blobs    storage.BlobStore
	embedder embedding.Embedder
}

func (c *components) close(logger zerolog.Logger) {
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing embedder")
		}
	}
	if c.blobs != nil {
		if err := c.blobs.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing index blob store")
		}
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, buildIndexOnly bool) error {
	comps, err := newComponents(ctx, cfg, logger, buildIndexOnly)
	if err != nil {
		return err
	}
	defer comps.close(logger)

	if buildIndexOnly {
		return buildIndex(ctx, comps.engine, logger)
	}
	return serve(ctx, cfg, comps.engine, logger)
}

// newComponents wires catalog, embedder, blob store and engine. An encoder
// that fails to start disables the text path unless strict is set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newComponents(ctx context.Context, cfg *config.Config, logger zerolog.Logger, strict bool) (*components, error) {
	comps := &components{}
	loader := catalog.NewLoader(&cfg.Catalog, logger)

	var indexes recommend.IndexProvider
	embedder, err := embedding.New(&cfg.Embedding, logger)
	switch {
	case err != nil && strict:
		return nil, fmt.Errorf("create embedder: %w", err)
	case err != nil:
		logger.Error().Err(err).Msg("Text encoder unavailable, semantic search disabled")
	default:
		comps.embedder = embedder

		blobs, err := storage.NewBlobStore(ctx, &cfg.Index, logger)
		if err != nil {
			if strict {
				comps.close(logger)
				return nil, fmt.Errorf("open index blob store: %w", err)
			}
			// index is rebuilt on every start without a cache
			logger.Warn().Err(err).Str("backend", cfg.Index.Backend).Msg("Index blob store unavailable, caching disabled")
		} else {
			comps.blobs = blobs
		}

		indexes = semantic.NewBuilder(embedder, comps.blobs, semantic.Options{
			BatchSize:   cfg.Embedding.BatchSize,
			Concurrency: cfg.Embedding.Concurrency,
			Validation:  cfg.Index.Validation,
		}, logger)
	}

	engine, err := recommend.NewEngine(recommend.FromAppConfig(&cfg.Recommend), loader, indexes, comps.embedder, logger)
	if err != nil {
		comps.close(logger)
		return nil, fmt.Errorf("create engine: %w", err)
	}
	comps.engine = engine
	return comps, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildIndex(ctx context.Context, engine *recommend.Engine, logger zerolog.Logger) error {
	start := time.Now()
	idx, err := engine.Index(ctx)
	if err != nil {
		return fmt.Errorf("build semantic index: %w", err)
	}
	logger.Info().
		Int("rows", idx.Rows()).
		Int("dimension", idx.Dimension()).
		Str("model", idx.ModelID()).
		Str("fingerprint", idx.Fingerprint()).
		Dur("duration", time.Since(start)).
		Msg("Semantic index ready")
	return nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func serve(ctx context.Context, cfg *config.Config, engine *recommend.Engine, logger zerolog.Logger) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	router := api.NewRouter(cfg, api.NewHandler(engine), logger)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddIndexService(services.NewWarmupService(engine, services.WarmupConfig{
		Enabled: cfg.Index.WarmOnStart,
		Timeout: cfg.Catalog.LoadTimeout + 30*time.Minute,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, stopping services")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("supervisor tree: %w", err)
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logger.Info().Msg("Flavorrank stopped")
	return nil
}
