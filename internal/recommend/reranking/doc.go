// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package reranking re-orders nearest-neighbor candidates by a multi-criterion
desirability score and selects the final result list.

# Criterion Score

Each candidate gets seven Gaussian-kernel similarity terms against the
reference item (the query item itself):

	popularity = Gaussian(maxCheckin, candidate.checkins, max(maxCheckin, 1))
	flavor_i   = Gaussian(reference.f_i, candidate.f_i, 0.6)   for i in 1..6
	score      = popularity + 7*sum(flavor_i) + 0.5*candidate.score

maxCheckin is the largest known check-in count among the candidates. The
kernel treats a missing input as a perfect match and special-cases a zero
sigma as hard equality, so scoring never divides by zero. The weights are
fixed constants.

Candidates are sorted by score descending; ties keep their distance order.

# Selection

Select walks the sorted list, skips the query item, skips any candidate
whose name was already taken (including the query item's name), and stops at
MaxResults. Deduplication is by display name, so two distinct items sharing
a name collapse into the higher-scored one.
*/
package reranking
