// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package reranking

import (
	"math"
	"testing"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/recommend/algorithms"
)

const eps = 1e-9

func flavoredItem(id catalog.ItemID, name string, flavors [6]float64, score, checkins float64) catalog.Item {
	it := catalog.NewItem(id)
	it.Name = name
	it.Flavors = flavors
	it.Score = score
	it.CheckinCount = checkins
	return it
}

func mustStore(t *testing.T, items ...catalog.Item) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(items)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func candidates(rows ...catalog.RowIndex) []algorithms.Candidate {
	out := make([]algorithms.Candidate, len(rows))
	for i, r := range rows {
		out[i] = algorithms.Candidate{Row: r}
	}
	return out
}

func TestGaussian(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	tests := []struct {
		name  string
		a, b  float64
		sigma float64
		want  float64
	}{
		{"self similarity", 3.7, 3.7, 0.6, 1},
		{"self similarity wide sigma", -12, -12, 1000, 1},
		{"zero sigma equal", 2, 2, 0, 1},
		{"zero sigma unequal", 2, 2.0001, 0, 0},
		{"missing a", nan, 5, 0.6, 1},
		{"missing b", 5, nan, 0, 1},
		{"one sigma apart", 0, 1, 1, math.Exp(-0.5)},
		{"symmetric", 1, 0, 1, math.Exp(-0.5)},
		{"flavor sigma", 1, 0.9, FlavorSigma, math.Exp(-0.01 / 0.72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Gaussian(tt.a, tt.b, tt.sigma); math.Abs(got-tt.want) > eps {
				t.Errorf("Gaussian(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.sigma, got, tt.want)
			}
		})
	}
}

func TestGaussian_Bounded(t *testing.T) {
	t.Parallel()

	for _, pair := range [][2]float64{{0, 100}, {-5, 5}, {1e6, -1e6}, {0.3, 0.31}} {
		g := Gaussian(pair[0], pair[1], 0.6)
		if g < 0 || g > 1 {
			t.Errorf("Gaussian(%v) = %v, want within [0, 1]", pair, g)
		}
	}
}

func TestCriterionScorer_Score(t *testing.T) {
	t.Parallel()

	ones := [6]float64{1, 1, 1, 1, 1, 1}
	ref := flavoredItem(1, "A", ones, 8, 100)
	s := NewCriterionScorer()

	// identical flavors, checkins at max: 1 + 7*6 + 0.5*8
	if got := s.Score(&ref, &ref, 100); math.Abs(got-47) > eps {
		t.Errorf("self score = %v, want 47", got)
	}

	noScore := flavoredItem(2, "B", ones, math.NaN(), 100)
	if got := s.Score(&ref, &noScore, 100); math.Abs(got-43) > eps {
		t.Errorf("missing quality score = %v, want 43 (contributes 0)", got)
	}

	noFlavors := catalog.NewItem(3)
	// every kernel input missing: 1 + 7*6
	if got := s.Score(&ref, &noFlavors, 100); math.Abs(got-43) > eps {
		t.Errorf("all-missing score = %v, want 43", got)
	}
}

func TestCriterionScorer_RankEndToEndExample(t *testing.T) {
	t.Parallel()

	store := mustStore(t,
		flavoredItem(1, "A", [6]float64{1, 1, 1, 1, 1, 1}, 8, 100),
		flavoredItem(2, "B", [6]float64{1, 1, 1, 1, 1, 0.9}, 7, 50),
		flavoredItem(3, "C", [6]float64{0, 0, 0, 0, 0, 0}, 5, 10),
	)

	// C is passed before B to show ranking is by score, not input order
	ranked := NewCriterionScorer().Rank(store, 0, candidates(0, 2, 1))

	order := []catalog.RowIndex{ranked[0].Row, ranked[1].Row, ranked[2].Row}
	if order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("rank order = %v, want [0 1 2] (A, B, C)", order)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("scores not descending: %v", ranked)
		}
	}
}

func TestCriterionScorer_RankStableOnTies(t *testing.T) {
	t.Parallel()

	f := [6]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	store := mustStore(t,
		flavoredItem(1, "ref", f, 6, 10),
		flavoredItem(2, "x", f, 6, 10),
		flavoredItem(3, "y", f, 6, 10),
		flavoredItem(4, "z", f, 6, 10),
	)

	ranked := NewCriterionScorer().Rank(store, 0, candidates(0, 3, 1, 2))
	want := []catalog.RowIndex{0, 3, 1, 2}
	for i, w := range want {
		if ranked[i].Row != w {
			t.Fatalf("tie order = %v, want input order %v", ranked, want)
		}
	}
}

func TestMaxCheckin(t *testing.T) {
	t.Parallel()

	store := mustStore(t,
		flavoredItem(1, "a", [6]float64{}, 1, math.NaN()),
		flavoredItem(2, "b", [6]float64{}, 1, 0),
	)
	if got := MaxCheckin(store, candidates(0, 1)); got != 0 {
		t.Errorf("MaxCheckin() = %v, want 0", got)
	}

	// with maxCheckin 0 the popularity sigma floors at 1
	ref := store.Item(1)
	if got := Gaussian(0, ref.CheckinCount, math.Max(0, 1)); got != 1 {
		t.Errorf("popularity term = %v, want 1", got)
	}
}
