// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/flavorrank/internal/config"
)

func httpConfig(endpoint string) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		Provider:  config.EmbeddingProviderHTTP,
		ModelID:   "nomic-embed-text",
		Dimension: 2,
		HTTP: config.HTTPConfig{
			Endpoint:            endpoint + "/v1/",
			APIKey:              "secret",
			Timeout:             5 * time.Second,
			BreakerMaxRequests:  1,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      time.Minute,
			BreakerFailureRatio: 0.5,
			BreakerMinRequests:  2,
		},
	}
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s, want /v1/embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" || len(req.Input) != 2 {
			t.Errorf("request = %+v", req)
		}

		// out of order on purpose; index decides placement
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0,5],"index":1},{"embedding":[3,4],"index":0}],"model":"nomic-embed-text"}`))
	}))
	defer server.Close()

	h := NewHTTPEmbedder(httpConfig(server.URL), zerolog.Nop())
	defer func() { _ = h.Close() }()

	vecs, err := h.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if math.Abs(float64(vecs[0][0])-0.6) > 1e-6 || math.Abs(float64(vecs[0][1])-0.8) > 1e-6 {
		t.Errorf("vecs[0] = %v, want normalised [0.6 0.8]", vecs[0])
	}
	if vecs[1][1] != 1 {
		t.Errorf("vecs[1] = %v, want [0 1]", vecs[1])
	}
	if h.ModelID() != "nomic-embed-text" || h.Dimension() != 2 {
		t.Error("ModelID/Dimension not taken from config")
	}
}

func TestHTTPEmbedder_BadResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		body string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"wrong count", http.StatusOK, `{"data":[{"embedding":[1,0],"index":0}]}`},
		{"wrong dimension", http.StatusOK, `{"data":[{"embedding":[1,0,0],"index":0},{"embedding":[1,0,0],"index":1}]}`},
		{"duplicate index", http.StatusOK, `{"data":[{"embedding":[1,0],"index":0},{"embedding":[1,0],"index":0}]}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			h := NewHTTPEmbedder(httpConfig(server.URL), zerolog.Nop())
			if _, err := h.Embed(context.Background(), []string{"a", "b"}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHTTPEmbedder_CircuitOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	h := NewHTTPEmbedder(httpConfig(server.URL), zerolog.Nop())
	ctx := context.Background()

	// two failures reach the minimum request count at a 100% failure ratio
	for i := 0; i < 2; i++ {
		if _, err := h.Embed(ctx, []string{"x"}); err == nil {
			t.Fatal("expected upstream failure")
		}
	}

	_, err := h.Embed(ctx, []string{"x"})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if calls.Load() != 2 {
		t.Errorf("upstream calls = %d, want 2 (third rejected by breaker)", calls.Load())
	}
}

func TestHTTPEmbedder_EmptyInput(t *testing.T) {
	t.Parallel()

	h := NewHTTPEmbedder(httpConfig("http://127.0.0.1:1"), zerolog.Nop())
	vecs, err := h.Embed(context.Background(), nil)
	if err != nil || len(vecs) != 0 {
		t.Errorf("Embed(nil) = (%v, %v), want empty without a request", vecs, err)
	}
}
