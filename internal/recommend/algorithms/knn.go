// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package algorithms

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

// MaxCandidates caps the candidate list independently of k.
const MaxCandidates = 15

// DefaultK is the neighbor count used when the caller passes k <= 0.
const DefaultK = 20

// cancelCheckInterval is how many rows are scanned between context checks.
const cancelCheckInterval = 4096

// Candidate is one nearest-neighbor result.
type Candidate struct {
	Row catalog.RowIndex

	// Distance is the Euclidean distance to the query row. NaN for
	// randomly sampled candidates.
	Distance float64
}

// CandidateSet is the output of FindCandidates. Candidates[0] is always the
// query row itself.
type CandidateSet struct {
	Candidates []Candidate
	Vocabulary Vocabulary
	Degraded   bool
}

// CandidateGenerator finds nearest neighbors in the binary feature space.
// It is safe for concurrent use.
type CandidateGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand

	maxCandidates int
}

// NewCandidateGenerator creates a generator whose degraded-mode sampling is
// seeded with seed.
func NewCandidateGenerator(seed int64) *CandidateGenerator {
	s := uint64(seed) //nolint:gosec // seed reinterpretation, not a size conversion
	return &CandidateGenerator{
		rng:           rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
		maxCandidates: MaxCandidates,
	}
}

// FindCandidates returns up to min(k, MaxCandidates) candidates for the item at
// query. A degraded sample is not truncated and holds min(k, n) rows. The query
// row is always first. The only error is context cancellation.
func (g *CandidateGenerator) FindCandidates(ctx context.Context, store *catalog.Store, query catalog.RowIndex, k int) (CandidateSet, error) {
	if k <= 0 {
		k = DefaultK
	}
	n := store.Len()
	if k > n {
		k = n
	}

	vocab := ExtractVocabulary(store.Item(query))
	if len(vocab) == 0 {
		return CandidateSet{
			Candidates: g.sample(store, query, k),
			Vocabulary: vocab,
			Degraded:   true,
		}, nil
	}

	matrix := Encode(store, vocab)

	// buckets[d] holds rows at squared distance d in catalog order.
	buckets := make([][]catalog.RowIndex, len(vocab)+1)
	for r := 0; r < n; r++ {
		if r%cancelCheckInterval == 0 && ctx.Err() != nil {
			return CandidateSet{}, ctx.Err()
		}
		row := catalog.RowIndex(r)
		if row == query {
			continue
		}
		d := matrix.mismatches(query, row)
		buckets[d] = append(buckets[d], row)
	}

	limit := min(k, g.maxCandidates)
	out := make([]Candidate, 0, limit)
	out = append(out, Candidate{Row: query, Distance: 0})
	for d, rows := range buckets {
		dist := math.Sqrt(float64(d))
		for _, row := range rows {
			if len(out) >= limit {
				break
			}
			out = append(out, Candidate{Row: row, Distance: dist})
		}
		if len(out) >= limit {
			break
		}
	}

	return CandidateSet{Candidates: out, Vocabulary: vocab}, nil
}

// sample returns the query row followed by limit-1 distinct random rows.
func (g *CandidateGenerator) sample(store *catalog.Store, query catalog.RowIndex, limit int) []Candidate {
	if limit <= 0 {
		return nil
	}
	out := make([]Candidate, 0, limit)
	out = append(out, Candidate{Row: query, Distance: math.NaN()})

	n := store.Len()
	others := make([]catalog.RowIndex, 0, n-1)
	for r := 0; r < n; r++ {
		if catalog.RowIndex(r) != query {
			others = append(others, catalog.RowIndex(r))
		}
	}

	g.mu.Lock()
	// partial Fisher-Yates
	for i := 0; i < len(others) && len(out) < limit; i++ {
		j := i + g.rng.IntN(len(others)-i)
		others[i], others[j] = others[j], others[i]
		out = append(out, Candidate{Row: others[i], Distance: math.NaN()})
	}
	g.mu.Unlock()

	return out
}
