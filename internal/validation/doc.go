// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package validation checks recommendation request bodies with
// go-playground/validator.
//
// Two bodies are validated:
//
//   - TextSearchRequest: query up to 1000 characters with no control
//     characters besides \n, \t and \r, optional top_k in [1, 100]
//   - FlavorProfileRequest: optional f1..f6 intensities in [0, 1], optional
//     topK in [1, 100]
//
// Item ids on GET /recommend/{id} are not range checked. Any int64 reaches
// the engine, which reports unknown ids as not found.
//
// Messages name the JSON key the client sent:
//
//	var req validation.FlavorProfileRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // INVALID_JSON
//	}
//	if verr := validation.Check(&req); verr != nil {
//	    // VALIDATION_FAILED, verr.Error() is e.g. "f3 must be 1 or less"
//	    // and verr.Details() lists every field
//	}
package validation
