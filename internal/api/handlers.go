// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/recommend"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
	"github.com/tomtom215/flavorrank/internal/validation"
)

// maxBodyBytes bounds POST bodies; a query is at most 1000 characters.
const maxBodyBytes = 16 << 10

// Recommender is the engine surface the handlers depend on.
// *recommend.Engine implements it.
type Recommender interface {
	RecommendByID(ctx context.Context, id catalog.ItemID) (*recommend.Response, error)
	RecommendByText(ctx context.Context, query string, topK int) (*recommend.Response, error)
	RecommendByFlavorProfile(ctx context.Context, profile algorithms.FlavorProfile, topK int) (*recommend.Response, error)
	Status() recommend.Status
}

// Handler serves the recommendation endpoints.
type Handler struct {
	engine    Recommender
	startTime time.Time
}

// NewHandler creates a Handler backed by engine.
func NewHandler(engine Recommender) *Handler {
	return &Handler{
		engine:    engine,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string           `json:"status"`
	Uptime    float64          `json:"uptimeSeconds"`
	Readiness recommend.Status `json:"readiness"`
}

// TextSearchResponse is the data payload of POST /recommend-by-text.
type TextSearchResponse struct {
	Query   string             `json:"query"`
	Results []recommend.Result `json:"results"`
}

// Health reports liveness plus which resources are loaded. It never triggers
// a catalog load, so probes stay cheap during warmup.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).Seconds(),
		Readiness: h.engine.Status(),
	})
}

// RecommendByID handles GET /recommend/{id}. Every int64 id reaches the
// engine; ids outside the catalog are 404.
func (h *Handler) RecommendByID(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		rw.BadRequest(ErrCodeInvalidID, "id must be an integer")
		return
	}

	resp, err := h.engine.RecommendByID(r.Context(), catalog.ItemID(id))
	if err != nil {
		h.engineError(rw, err)
		return
	}

	degraded := resp.Degraded
	rw.SuccessWithMeta(resp.Results, &APIMeta{
		Count:    len(resp.Results),
		Degraded: &degraded,
		CacheHit: resp.Metadata.CacheHit,
	})
}

// RecommendByText handles POST /recommend-by-text.
func (h *Handler) RecommendByText(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req validation.TextSearchRequest
	if !decodeBody(rw, w, r, &req) {
		return
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
	}

	resp, err := h.engine.RecommendByText(r.Context(), req.Query, topK)
	if err != nil {
		h.engineError(rw, err)
		return
	}

	rw.SuccessWithMeta(TextSearchResponse{
		Query:   req.Query,
		Results: resp.Results,
	}, &APIMeta{
		Count: len(resp.Results),
		Model: resp.Metadata.Model,
	})
}

// RecommendByFlavorProfile handles POST /api/v1/recommend/flavor-profile.
func (h *Handler) RecommendByFlavorProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req validation.FlavorProfileRequest
	if !decodeBody(rw, w, r, &req) {
		return
	}

	topK := 0
	if req.TopK != nil {
		topK = *req.TopK
	}

	resp, err := h.engine.RecommendByFlavorProfile(r.Context(), algorithms.FlavorProfile(req.Profile()), topK)
	if err != nil {
		h.engineError(rw, err)
		return
	}

	rw.SuccessWithMeta(resp.Results, &APIMeta{Count: len(resp.Results)})
}

// decodeBody reads a size-limited JSON body into req and validates it. On
// failure it writes the error response and returns false.
func decodeBody(rw *ResponseWriter, w http.ResponseWriter, r *http.Request, req any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			rw.BadRequest(ErrCodeInvalidJSON, "Request body is required")
			return false
		}
		rw.BadRequest(ErrCodeInvalidJSON, "Malformed JSON body")
		return false
	}
	if verr := validation.Check(req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return false
	}
	return true
}

// engineError maps engine errors onto HTTP statuses.
func (h *Handler) engineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		rw.NotFound("Item not found")
	case errors.Is(err, recommend.ErrSemanticDisabled):
		rw.ServiceUnavailable("Semantic search is not configured")
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request timed out")
	default:
		rw.InternalError(err)
	}
}
