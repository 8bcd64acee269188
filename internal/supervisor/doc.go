// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package supervisor provides process supervision for Flavorrank using suture v4.

# Overview

Services are organized into two layers for failure isolation:

	RootSupervisor ("flavorrank")
	├── IndexSupervisor ("index-layer")
	│   └── WarmupService (catalog load + semantic index build/load)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A warmup failure is restarted with suture's backoff without touching the HTTP
server. Until warmup succeeds, requests initialize the engine lazily.

# Usage

	slogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddIndexService(services.NewWarmupService(engine, services.WarmupConfig{Enabled: true}, logger))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := tree.ServeBackground(ctx)

Supervisor events (start, stop, failure, backoff) are logged through the
sutureslog adapter, which writes to the zerolog-backed slog.Logger.

See the services subpackage for the service wrappers.
*/
package supervisor
