// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/metrics"
)

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// HTTPEmbedder calls an OpenAI-compatible embeddings endpoint through a
// circuit breaker.
type HTTPEmbedder struct {
	endpoint string
	apiKey   string
	modelID  string
	dim      int
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[][]float32]
	name     string
	logger   zerolog.Logger
}

// NewHTTPEmbedder creates an HTTP provider from cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPEmbedder(cfg *config.EmbeddingConfig, logger zerolog.Logger) *HTTPEmbedder {
	h := &HTTPEmbedder{
		endpoint: strings.TrimRight(cfg.HTTP.Endpoint, "/") + "/embeddings",
		apiKey:   cfg.HTTP.APIKey,
		modelID:  cfg.ModelID,
		dim:      cfg.Dimension,
		client:   &http.Client{Timeout: cfg.HTTP.Timeout},
		name:     "embedding-http",
		logger:   logger.With().Str("component", "embedding").Str("provider", "http").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(h.name).Set(0)

	minRequests := cfg.HTTP.BreakerMinRequests
	ratio := cfg.HTTP.BreakerFailureRatio
	h.cb = gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        h.name,
		MaxRequests: cfg.HTTP.BreakerMaxRequests,
		Interval:    cfg.HTTP.BreakerInterval,
		Timeout:     cfg.HTTP.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= ratio {
				h.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_ratio", failureRatio).Msg("Opening embedding circuit")
				return true
			}
			return false
		},

		// Caller cancellations say nothing about endpoint health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			h.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Embedding circuit state transition")
			metrics.RecordBreakerTransition(name, int(from), int(to))
		},
	})

	return h
}

// Embed posts texts to the endpoint and returns normalised vectors.
func (h *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vecs, err := h.cb.Execute(func() ([][]float32, error) {
		return h.post(ctx, texts)
	})
	metrics.RecordEmbedding("http", len(texts), time.Since(start), err)

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(h.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(h.name, "rejected").Inc()
		return nil, fmt.Errorf("embedding endpoint unavailable: %w", err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(h.name, "failure").Inc()
		return nil, err
	}
	return vecs, nil
}

func (h *HTTPEmbedder) post(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: h.modelID, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // response body close

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort error context
		return nil, fmt.Errorf("embedding endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) || out[d.Index] != nil {
			return nil, fmt.Errorf("embedding response has invalid index %d", d.Index)
		}
		L2Normalize(d.Embedding)
		out[d.Index] = d.Embedding
	}
	if err := checkDims(out, h.dim); err != nil {
		return nil, err
	}
	return out, nil
}

// Dimension returns the configured vector width.
func (h *HTTPEmbedder) Dimension() int { return h.dim }

// ModelID returns the configured model name.
func (h *HTTPEmbedder) ModelID() string { return h.modelID }

// Close releases idle connections.
func (h *HTTPEmbedder) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
