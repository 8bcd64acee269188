// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/semantic"
)

var (
	// ErrNotFound is returned by RecommendByID when the id is not in the catalog.
	ErrNotFound = errors.New("item not found")

	// ErrSemanticDisabled is returned by the text path when no encoder or
	// index provider was configured.
	ErrSemanticDisabled = errors.New("semantic search is not configured")
)

// CatalogProvider loads the catalog. *catalog.Loader implements it.
type CatalogProvider interface {
	LoadCatalog(ctx context.Context) (*catalog.Store, error)
}

// IndexProvider builds or loads the semantic index for a catalog.
// *semantic.Builder implements it.
type IndexProvider interface {
	BuildOrLoad(ctx context.Context, store *catalog.Store) (*semantic.Index, error)
}

// Flavors holds the rounded f1..f6 intensities. Missing values are nil.
type Flavors struct {
	F1 *float64 `json:"f1"`
	F2 *float64 `json:"f2"`
	F3 *float64 `json:"f3"`
	F4 *float64 `json:"f4"`
	F5 *float64 `json:"f5"`
	F6 *float64 `json:"f6"`
}

// Result is one recommended item. Every optional field is a pointer so that
// an unknown value encodes as null rather than as a zero value.
type Result struct {
	// Rank is the 1-based position in the response.
	Rank int `json:"rank"`

	// SimilarityScore is the cosine similarity, set on the text and flavor
	// profile paths only.
	SimilarityScore *float64 `json:"similarityScore,omitempty"`

	ID            *int64   `json:"id"`
	Brand         *string  `json:"brand"`
	BrandIntlName *string  `json:"brandIntlName"`
	Name          *string  `json:"name"`
	IntlName      *string  `json:"intlName"`
	Score         *float64 `json:"score"`
	CheckinCount  *int64   `json:"checkinCount"`
	Flavors       Flavors  `json:"flavors"`
	FlavourTags   []string `json:"flavourTags"`
	Pictures      []string `json:"pictures"`
	SimilarBrands []string `json:"similarBrands"`
	YearMonth     *string  `json:"yearMonth"`
}

// Response is the output of both recommendation paths.
type Response struct {
	Results []Result `json:"results"`

	// Degraded is true when the id path fell back to random sampling because
	// the query item has neither a brand nor tags.
	Degraded bool `json:"degraded"`

	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	Path       string    `json:"path"`
	QueryID    *int64    `json:"queryId,omitempty"`
	Query      string    `json:"query,omitempty"`
	Candidates int       `json:"candidates"`
	Vocabulary int       `json:"vocabulary,omitempty"`
	Model      string    `json:"model,omitempty"`
	LatencyMS  int64     `json:"latencyMs"`
	CacheHit   bool      `json:"cacheHit"`
	Timestamp  time.Time `json:"timestamp"`
}

// Status reports what the engine has initialized so far.
type Status struct {
	CatalogReady bool   `json:"catalogReady"`
	CatalogItems int    `json:"catalogItems"`
	IndexReady   bool   `json:"indexReady"`
	IndexModel   string `json:"indexModel,omitempty"`
}
