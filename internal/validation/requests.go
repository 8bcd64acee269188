// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package validation

// Request bounds. The engine applies its own, usually lower, top-K cap
// afterwards.
const (
	MaxQueryLength = 1000
	MaxTopK        = 100
)

// TextSearchRequest is the body of POST /recommend-by-text.
// TopK is optional; nil selects the engine default.
type TextSearchRequest struct {
	Query string `json:"query" validate:"max=1000,printable"`
	TopK  *int   `json:"top_k" validate:"omitempty,min=1,max=100"`
}

// FlavorProfileRequest is the body of POST /api/v1/recommend/flavor-profile.
// Each intensity is optional and lies in [0, 1]; unset ones are filled by
// the engine.
type FlavorProfileRequest struct {
	F1   *float64 `json:"f1" validate:"omitempty,gte=0,lte=1"`
	F2   *float64 `json:"f2" validate:"omitempty,gte=0,lte=1"`
	F3   *float64 `json:"f3" validate:"omitempty,gte=0,lte=1"`
	F4   *float64 `json:"f4" validate:"omitempty,gte=0,lte=1"`
	F5   *float64 `json:"f5" validate:"omitempty,gte=0,lte=1"`
	F6   *float64 `json:"f6" validate:"omitempty,gte=0,lte=1"`
	TopK *int     `json:"topK" validate:"omitempty,min=1,max=100"`
}

// Profile returns f1..f6 in order.
func (r *FlavorProfileRequest) Profile() [6]*float64 {
	return [6]*float64{r.F1, r.F2, r.F3, r.F4, r.F5, r.F6}
}
