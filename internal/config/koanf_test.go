// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Catalog.Table != "products" {
		t.Errorf("Catalog.Table = %q, want products", cfg.Catalog.Table)
	}
	if cfg.Catalog.CSVPath != "data/liquors.csv" {
		t.Errorf("Catalog.CSVPath = %q, want data/liquors.csv", cfg.Catalog.CSVPath)
	}
	if !cfg.Catalog.FallbackToCSV || !cfg.Catalog.ImputeMedian {
		t.Error("CSV fallback and median imputation should be on by default")
	}
	if cfg.Recommend.Neighbors != 20 {
		t.Errorf("Recommend.Neighbors = %d, want 20", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.DefaultTopK != 5 {
		t.Errorf("Recommend.DefaultTopK = %d, want 5", cfg.Recommend.DefaultTopK)
	}
	if cfg.Embedding.Dimension != 384 {
		t.Errorf("Embedding.Dimension = %d, want 384", cfg.Embedding.Dimension)
	}
	if cfg.Index.Validation != IndexValidateFingerprint {
		t.Errorf("Index.Validation = %q, want fingerprint", cfg.Index.Validation)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
catalog:
  source: csv
  csv_path: /srv/liquors.csv
embedding:
  provider: hash
  dimension: 64
index:
  backend: memory
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000")
	t.Setenv("RECOMMEND_CACHE_TTL", "30s")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 (env wins over file)", cfg.Server.Port)
	}
	if cfg.Catalog.Source != CatalogSourceCSV || cfg.Catalog.CSVPath != "/srv/liquors.csv" {
		t.Errorf("Catalog = %+v, want csv source from file", cfg.Catalog)
	}
	if cfg.Embedding.Provider != EmbeddingProviderHash || cfg.Embedding.Dimension != 64 {
		t.Errorf("Embedding = %s/%d, want hash/64", cfg.Embedding.Provider, cfg.Embedding.Dimension)
	}
	if cfg.Recommend.CacheTTL != 30*time.Second {
		t.Errorf("Recommend.CacheTTL = %v, want 30s", cfg.Recommend.CacheTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v, want two trimmed origins", cfg.Security.CORSOrigins)
	}
	// untouched default survives both layers
	if cfg.Recommend.Neighbors != 20 {
		t.Errorf("Recommend.Neighbors = %d, want default 20", cfg.Recommend.Neighbors)
	}
}

func TestLoadFrom_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("embedding:\n  provider: word2vec\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DATABASE_URL", "catalog.postgres_dsn"},
		{"EMBEDDING_HTTP_API_KEY", "embedding.http.api_key"},
		{"ONNXRUNTIME_LIBRARY_PATH", "embedding.onnx.library_path"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile_EnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}
}
