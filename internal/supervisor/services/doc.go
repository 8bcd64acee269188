// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package services provides suture.Service wrappers for Flavorrank components.

Each wrapper implements suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Runs ListenAndServe in a goroutine
  - Calls Shutdown with a timeout when the context is canceled
  - Treats http.ErrServerClosed as a clean exit

Index Warmup (WarmupService):
  - Loads the catalog and semantic index once when enabled
  - Returns failures so the supervisor retries with backoff
  - Idles after success until shutdown

# Error Handling

Returning an error signals failure and suture restarts the service.
Returning ctx.Err() after cancellation is a normal stop.
*/
package services
