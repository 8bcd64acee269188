// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package logging provides the process-wide zerolog logger for Flavorrank.
//
// JSON output is the default; console output is meant for local development.
// Request-scoped loggers carry the request id set by the middleware:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Ctx(r.Context()).Info().Int64("id", id).Msg("Recommendation served")
//
// Components take a zerolog.Logger by value and derive their own child logger
// with WithComponent, so tests can pass zerolog.Nop().
//
// The package also exposes an slog.Handler backed by zerolog, used by the
// suture supervisor through sutureslog.
package logging
