// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package algorithms implements the candidate stage of the id-based
// recommendation path.
//
// # Feature Encoding
//
// A Vocabulary is derived from a single query item: its brand name followed by
// its flavour tags. Every catalog item is then encoded against that vocabulary
// into a binary FeatureMatrix where term t is set for item i iff t equals the
// item's brand or appears in its tag list. The matrix is request-scoped and
// never mutates the catalog.
//
// # Candidate Generation
//
// CandidateGenerator runs an exact k-nearest-neighbor search by Euclidean
// distance over the binary rows. Because all coordinates are 0 or 1, the
// squared distance is the number of mismatched terms, so the search buckets
// rows by mismatch count instead of sorting floating point distances. The
// query item always comes first, followed by rows in ascending distance and
// then catalog order. Results are capped at MaxCandidates regardless of k.
//
// When the query item has neither brand nor tags the vocabulary is empty and
// the generator falls back to a seeded random sample of min(k, n) rows, flagging
// the result as Degraded. The MaxCandidates cap does not apply to the sample.
//
// # Usage
//
//	gen := algorithms.NewCandidateGenerator(42)
//	set, err := gen.FindCandidates(ctx, store, row, 20)
//	if set.Degraded {
//	    // no feature overlap was possible
//	}
package algorithms
