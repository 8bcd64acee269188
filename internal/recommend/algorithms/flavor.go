// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

// Defaults for flavor-profile search.
const (
	// DefaultFlavorTopK is used when the caller does not ask for a size.
	DefaultFlavorTopK = 15

	// profileFill replaces a dimension the user left unset.
	profileFill = 0.5
)

// FlavorProfile is a user-supplied f1..f6 target. Nil entries are unset.
type FlavorProfile [catalog.FlavorDims]*float64

// Vector returns the profile with unset dimensions filled with 0.5.
func (p FlavorProfile) Vector() [catalog.FlavorDims]float64 {
	var v [catalog.FlavorDims]float64
	for i, f := range p {
		if f == nil {
			v[i] = profileFill
			continue
		}
		v[i] = *f
	}
	return v
}

// FlavorMatch is one flavor-profile search hit.
type FlavorMatch struct {
	Row        catalog.RowIndex
	Similarity float64
}

// FlavorCosine is the cosine similarity of two flavor vectors. Missing or
// non-finite item values count as 0, and a zero norm yields 0. The result is
// always in [-1, 1].
func FlavorCosine(profile, item [catalog.FlavorDims]float64) float64 {
	var dot, pn, in float64
	for i := range profile {
		a, b := finiteOrZero(profile[i]), finiteOrZero(item[i])
		dot += a * b
		pn += a * a
		in += b * b
	}
	if pn == 0 || in == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(pn) * math.Sqrt(in))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}

// RankByFlavorProfile scores every catalog item against profile and returns
// the topK best by similarity descending, ties in catalog order. The only
// error is context cancellation.
func RankByFlavorProfile(ctx context.Context, store *catalog.Store, profile FlavorProfile, topK int) ([]FlavorMatch, error) {
	if topK <= 0 {
		topK = DefaultFlavorTopK
	}
	target := profile.Vector()

	n := store.Len()
	matches := make([]FlavorMatch, n)
	for r := 0; r < n; r++ {
		if r%cancelCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		row := catalog.RowIndex(r)
		matches[r] = FlavorMatch{
			Row:        row,
			Similarity: FlavorCosine(target, store.Item(row).Flavors),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches[:min(topK, n)], nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
