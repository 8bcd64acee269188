// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package reranking

import (
	"math"
	"sort"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
)

// Scoring constants.
const (
	PopularityWeight = 1.0
	FlavorWeight     = 7.0
	FlavorSigma      = 0.6
	QualityWeight    = 0.5
)

// Gaussian returns exp(-(a-b)^2 / (2*sigma^2)).
// A missing (NaN) input yields 1; sigma == 0 yields 1 iff a == b.
func Gaussian(a, b, sigma float64) float64 {
	if catalog.Missing(a) || catalog.Missing(b) {
		return 1
	}
	if sigma == 0 {
		if a == b {
			return 1
		}
		return 0
	}
	d := a - b
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// Scored is a candidate annotated with its criterion score.
type Scored struct {
	algorithms.Candidate
	Score float64
}

// CriterionScorer computes the popularity, flavor and quality score.
type CriterionScorer struct{}

// NewCriterionScorer creates a scorer.
func NewCriterionScorer() *CriterionScorer {
	return &CriterionScorer{}
}

// Name returns the reranker identifier.
func (s *CriterionScorer) Name() string {
	return "criterion"
}

// Score returns the desirability of candidate relative to reference.
func (s *CriterionScorer) Score(reference, candidate *catalog.Item, maxCheckin float64) float64 {
	total := PopularityWeight * Gaussian(maxCheckin, candidate.CheckinCount, math.Max(maxCheckin, 1))

	var flavor float64
	for i := 0; i < catalog.FlavorDims; i++ {
		flavor += Gaussian(reference.Flavors[i], candidate.Flavors[i], FlavorSigma)
	}
	total += FlavorWeight * flavor

	if !catalog.Missing(candidate.Score) {
		total += QualityWeight * candidate.Score
	}
	return total
}

// Rank scores every candidate against the item at reference and returns them
// sorted by score descending. Equal scores keep their input order.
func (s *CriterionScorer) Rank(store *catalog.Store, reference catalog.RowIndex, candidates []algorithms.Candidate) []Scored {
	ref := store.Item(reference)
	maxCheckin := MaxCheckin(store, candidates)

	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		out[i] = Scored{Candidate: c, Score: s.Score(ref, store.Item(c.Row), maxCheckin)}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// MaxCheckin returns the largest known check-in count among candidates, or 0.
func MaxCheckin(store *catalog.Store, candidates []algorithms.Candidate) float64 {
	maxCheckin := 0.0
	for _, c := range candidates {
		if v := store.Item(c.Row).CheckinCount; !catalog.Missing(v) && v > maxCheckin {
			maxCheckin = v
		}
	}
	return maxCheckin
}
