// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/middleware"
)

// defaultHandlerTimeout applies when the server config leaves it unset.
const defaultHandlerTimeout = 10 * time.Second

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	timeout       time.Duration
	logger        zerolog.Logger
}

// NewRouter creates a router for handler using the server and security
// sections of cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *Router {
	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)),
		timeout:       timeout,
		logger:        logger,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(router.logger, middleware.DefaultSlowThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

	r.Get("/health", router.handler.Health)
	r.Get("/api/v1/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chimiddleware.Timeout(router.timeout))

		r.Get("/recommend/{id}", router.handler.RecommendByID)
		r.Post("/recommend-by-text", router.handler.RecommendByText)

		r.Route("/api/v1/recommend", func(r chi.Router) {
			r.Post("/text", router.handler.RecommendByText)
			r.Post("/flavor-profile", router.handler.RecommendByFlavorProfile)
			r.Get("/{id}", router.handler.RecommendByID)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	return r
}
