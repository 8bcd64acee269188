// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/embedding"
)

// Match is one search hit.
type Match struct {
	Row        catalog.RowIndex
	Similarity float64
}

// Query embeds text with embedder and returns the topK most similar rows.
func (idx *Index) Query(ctx context.Context, embedder embedding.Embedder, text string, topK int) ([]Match, error) {
	vecs, err := embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 || len(vecs[0]) != idx.dim {
		return nil, fmt.Errorf("%w: query vector does not match index width %d", embedding.ErrDimensionMismatch, idx.dim)
	}
	return idx.Search(vecs[0], topK), nil
}

// Search ranks every row by cosine similarity to q. Equal similarities keep
// catalog order.
func (idx *Index) Search(q []float32, topK int) []Match {
	if topK <= 0 || idx.rows == 0 {
		return []Match{}
	}
	topK = min(topK, idx.rows)

	var qn float64
	for _, x := range q {
		qn += float64(x) * float64(x)
	}
	qn = math.Sqrt(qn)

	all := make([]Match, idx.rows)
	for r := 0; r < idx.rows; r++ {
		row := catalog.RowIndex(r)
		all[r] = Match{Row: row, Similarity: cosine(q, idx.Vector(row), qn, float64(idx.norms[r]))}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Similarity > all[j].Similarity
	})
	return all[:topK]
}

// cosine returns the cosine similarity clamped to [-1, 1]. It is 0 when
// either vector has zero length or holds a NaN or infinite component.
func cosine(a, b []float32, an, bn float64) float64 {
	if an == 0 || bn == 0 || !finite(an) || !finite(bn) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := dot / (an * bn)
	if !finite(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
