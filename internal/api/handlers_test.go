// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/recommend"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
)

// fakeRecommender records calls and returns canned responses.
type fakeRecommender struct {
	mu        sync.Mutex
	lastID    catalog.ItemID
	lastQuery   string
	lastTopK    int
	lastProfile algorithms.FlavorProfile

	byIDErr   error
	byTextErr   error
	byFlavorErr error
	degraded    bool
}

func (f *fakeRecommender) RecommendByID(_ context.Context, id catalog.ItemID) (*recommend.Response, error) {
	f.mu.Lock()
	f.lastID = id
	f.mu.Unlock()
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	id, name, score := int64(2), "Beta", 7.0
	return &recommend.Response{
		Results:  []recommend.Result{{Rank: 1, ID: &id, Name: &name, Score: &score}},
		Degraded: f.degraded,
		Metadata: recommend.ResponseMetadata{Path: "id"},
	}, nil
}

func (f *fakeRecommender) RecommendByText(_ context.Context, query string, topK int) (*recommend.Response, error) {
	f.mu.Lock()
	f.lastQuery, f.lastTopK = query, topK
	f.mu.Unlock()
	if f.byTextErr != nil {
		return nil, f.byTextErr
	}
	id, sim := int64(1), 0.91
	return &recommend.Response{
		Results:  []recommend.Result{{Rank: 1, ID: &id, SimilarityScore: &sim}},
		Metadata: recommend.ResponseMetadata{Path: "text", Model: "hash-256"},
	}, nil
}

func (f *fakeRecommender) RecommendByFlavorProfile(_ context.Context, profile algorithms.FlavorProfile, topK int) (*recommend.Response, error) {
	f.mu.Lock()
	f.lastProfile, f.lastTopK = profile, topK
	f.mu.Unlock()
	if f.byFlavorErr != nil {
		return nil, f.byFlavorErr
	}
	id, sim := int64(3), 0.87
	return &recommend.Response{
		Results:  []recommend.Result{{Rank: 1, ID: &id, SimilarityScore: &sim}},
		Metadata: recommend.ResponseMetadata{Path: "flavor"},
	}, nil
}

func (f *fakeRecommender) Status() recommend.Status {
	return recommend.Status{CatalogReady: true, CatalogItems: 3}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Timeout: 5 * time.Second},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

func newTestServer(t *testing.T, rec Recommender) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), NewHandler(rec), zerolog.Nop()).Setup()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeRecommender{})
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rec.Code)
		}
		body := decodeEnvelope(t, rec)
		if body["status"] != "ok" {
			t.Errorf("%s status field = %v, want ok", path, body["status"])
		}
		readiness, ok := body["readiness"].(map[string]any)
		if !ok || readiness["catalogReady"] != true {
			t.Errorf("%s readiness = %v", path, body["readiness"])
		}
	}
}

func TestRecommendByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"success", "/recommend/1", nil, http.StatusOK, ""},
		{"versioned alias", "/api/v1/recommend/1", nil, http.StatusOK, ""},
		{"non-integer id", "/recommend/abc", nil, http.StatusBadRequest, ErrCodeInvalidID},
		{"float id", "/recommend/1.5", nil, http.StatusBadRequest, ErrCodeInvalidID},
		{"negative id absent from catalog", "/recommend/-4", fmt.Errorf("%w: id -4", recommend.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"id overflowing int64", "/recommend/9223372036854775808", nil, http.StatusBadRequest, ErrCodeInvalidID},
		{"unknown id", "/recommend/99", fmt.Errorf("%w: id 99", recommend.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"engine failure", "/recommend/1", errors.New("catalog unavailable"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestServer(t, &fakeRecommender{byIDErr: tt.err})
			rec := do(t, h, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			body := decodeEnvelope(t, rec)
			if tt.wantCode == "" {
				if body["success"] != true {
					t.Errorf("success = %v, want true", body["success"])
				}
				return
			}
			apiErr, ok := body["error"].(map[string]any)
			if !ok {
				t.Fatalf("missing error object in %s", rec.Body.String())
			}
			if apiErr["code"] != tt.wantCode {
				t.Errorf("error code = %v, want %s", apiErr["code"], tt.wantCode)
			}
		})
	}
}

func TestRecommendByID_Body(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{degraded: true}
	rec := do(t, newTestServer(t, fake), http.MethodGet, "/recommend/42", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.lastID != 42 {
		t.Errorf("engine got id %d, want 42", fake.lastID)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			ID   int64   `json:"id"`
			Name *string `json:"name"`
		} `json:"data"`
		Meta APIMeta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != 2 {
		t.Errorf("data = %+v", resp.Data)
	}
	if resp.Meta.Degraded == nil || !*resp.Meta.Degraded {
		t.Error("meta.degraded should be true")
	}
	if resp.Meta.Count != 1 {
		t.Errorf("meta.count = %d, want 1", resp.Meta.Count)
	}
	if resp.Meta.RequestID == "" {
		t.Error("meta.requestId should be set by the request ID middleware")
	}
}

func TestRecommendByID_NegativeIDReachesEngine(t *testing.T) {
	t.Parallel()

	fake := &fakeRecommender{}
	rec := do(t, newTestServer(t, fake), http.MethodGet, "/recommend/-5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if fake.lastID != -5 {
		t.Errorf("engine got id %d, want -5", fake.lastID)
	}
}

func TestRecommendByText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantCode   string
		wantTopK   int
	}{
		{"default top_k", "/recommend-by-text", `{"query":"fruity and dry"}`, nil, http.StatusOK, "", 0},
		{"explicit top_k", "/recommend-by-text", `{"query":"fruity","top_k":3}`, nil, http.StatusOK, "", 3},
		{"versioned alias", "/api/v1/recommend/text", `{"query":"fruity","top_k":2}`, nil, http.StatusOK, "", 2},
		{"empty query allowed", "/recommend-by-text", `{"query":""}`, nil, http.StatusOK, "", 0},
		{"malformed json", "/recommend-by-text", `{"query":`, nil, http.StatusBadRequest, ErrCodeInvalidJSON, 0},
		{"wrong type", "/recommend-by-text", `{"query":"x","top_k":"five"}`, nil, http.StatusBadRequest, ErrCodeInvalidJSON, 0},
		{"top_k zero", "/recommend-by-text", `{"query":"x","top_k":0}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0},
		{"top_k too large", "/recommend-by-text", `{"query":"x","top_k":1000}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0},
		{"query too long", "/recommend-by-text", `{"query":"` + strings.Repeat("a", 1001) + `"}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0},
		{"semantic disabled", "/recommend-by-text", `{"query":"x"}`, recommend.ErrSemanticDisabled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{byTextErr: tt.err}
			rec := do(t, newTestServer(t, fake), http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			body := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				apiErr, _ := body["error"].(map[string]any)
				if apiErr["code"] != tt.wantCode {
					t.Errorf("error code = %v, want %s", apiErr["code"], tt.wantCode)
				}
				return
			}

			if fake.lastTopK != tt.wantTopK {
				t.Errorf("engine topK = %d, want %d", fake.lastTopK, tt.wantTopK)
			}
			data, _ := body["data"].(map[string]any)
			if _, ok := data["query"]; !ok {
				t.Errorf("data missing query: %v", data)
			}
			results, _ := data["results"].([]any)
			if len(results) != 1 {
				t.Errorf("results = %v", data["results"])
			}
		})
	}
}

func TestRecommendByFlavorProfile(t *testing.T) {
	t.Parallel()

	const path = "/api/v1/recommend/flavor-profile"
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
		wantTopK   int
		wantSet    []bool
	}{
		{"full profile", `{"f1":0.1,"f2":0.2,"f3":0.3,"f4":0.4,"f5":0.5,"f6":0.6,"topK":4}`, nil, http.StatusOK, "", 4, []bool{true, true, true, true, true, true}},
		{"partial profile", `{"f2":0.9}`, nil, http.StatusOK, "", 0, []bool{false, true, false, false, false, false}},
		{"empty profile", `{}`, nil, http.StatusOK, "", 0, []bool{false, false, false, false, false, false}},
		{"intensity above one", `{"f1":1.2}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0, nil},
		{"negative intensity", `{"f4":-0.5}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0, nil},
		{"topK zero", `{"topK":0}`, nil, http.StatusBadRequest, ErrCodeValidationFailed, 0, nil},
		{"malformed json", `{"f1":`, nil, http.StatusBadRequest, ErrCodeInvalidJSON, 0, nil},
		{"engine failure", `{}`, errors.New("catalog unavailable"), http.StatusInternalServerError, ErrCodeInternalError, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeRecommender{byFlavorErr: tt.err}
			rec := do(t, newTestServer(t, fake), http.MethodPost, path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			body := decodeEnvelope(t, rec)
			if tt.wantCode != "" {
				apiErr, _ := body["error"].(map[string]any)
				if apiErr["code"] != tt.wantCode {
					t.Errorf("error code = %v, want %s", apiErr["code"], tt.wantCode)
				}
				return
			}

			if fake.lastTopK != tt.wantTopK {
				t.Errorf("engine topK = %d, want %d", fake.lastTopK, tt.wantTopK)
			}
			for i, set := range tt.wantSet {
				if (fake.lastProfile[i] != nil) != set {
					t.Errorf("f%d set = %v, want %v", i+1, fake.lastProfile[i] != nil, set)
				}
			}
			data, _ := body["data"].([]any)
			if len(data) != 1 {
				t.Fatalf("data = %v, want one result", body["data"])
			}
			first, _ := data[0].(map[string]any)
			if first["similarityScore"] != 0.87 {
				t.Errorf("similarityScore = %v, want 0.87", first["similarityScore"])
			}
		})
	}
}

func TestRecommendByText_EmptyBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/recommend-by-text", http.NoBody)
	rec := httptest.NewRecorder()
	newTestServer(t, &fakeRecommender{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeRecommender{})

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/recommend/1", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeRecommender{})
	_ = do(t, h, http.MethodGet, "/recommend/1", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output should include api_requests_total")
	}
}
