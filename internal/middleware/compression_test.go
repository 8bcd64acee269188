// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func jsonHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test handler
	})
}

func TestCompression(t *testing.T) {
	t.Parallel()

	body := `{"results":[` + strings.Repeat(`{"name":"Dassai 45"},`, 50) + `{}]}`

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{"gzip accepted", "/recommend/1", "gzip", true},
		{"gzip among others", "/recommend/1", "deflate, gzip;q=0.8", true},
		{"no accept header", "/recommend/1", "", false},
		{"other encoding only", "/recommend/1", "br", false},
		{"metrics skipped", "/metrics", "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			Compression(jsonHandler(body)).ServeHTTP(rec, req)

			gzipped := rec.Header().Get("Content-Encoding") == "gzip"
			if gzipped != tt.wantGzip {
				t.Fatalf("gzip = %v, want %v", gzipped, tt.wantGzip)
			}

			var got []byte
			if gzipped {
				zr, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() error = %v", err)
				}
				if got, err = io.ReadAll(zr); err != nil {
					t.Fatal(err)
				}
				if rec.Header().Get("Vary") != "Accept-Encoding" {
					t.Error("Vary header missing")
				}
			} else {
				got = rec.Body.Bytes()
			}
			if string(got) != body {
				t.Error("body changed by compression round trip")
			}
		})
	}
}

func TestGzipResponseWriter_ImplicitHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	var sink strings.Builder
	gzw := &gzipResponseWriter{Writer: &sink, ResponseWriter: rec}

	if _, err := gzw.Write([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if !gzw.wroteHeader || rec.Code != http.StatusOK {
		t.Errorf("first Write should send 200, got %d", rec.Code)
	}
	if sink.String() != "data" {
		t.Errorf("sink = %q", sink.String())
	}
}
