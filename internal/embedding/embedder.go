// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrDimensionMismatch is returned when a provider yields vectors of an
// unexpected width.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedder encodes text into unit-length vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the width of every returned vector.
	Dimension() int

	// ModelID identifies the encoder; it is part of the index cache key.
	ModelID() string

	// Close releases provider resources.
	Close() error
}

// NormalizeText applies NFKC and collapses runs of whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// L2Normalize scales v to unit length in place. Zero vectors and vectors
// with a non-finite norm are left as is.
func L2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}

// MeanPool averages the token states of one sequence over the positions
// where mask is non-zero. hidden is laid out [seqLen][dim].
func MeanPool(hidden []float32, mask []int64, dim int) []float32 {
	out := make([]float32, dim)
	var count float32
	for t, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for i, x := range row {
			out[i] += x
		}
		count++
	}
	if count > 0 {
		for i := range out {
			out[i] /= count
		}
	}
	return out
}

// checkDims verifies every vector has width dim.
func checkDims(vecs [][]float32, dim int) error {
	for i, v := range vecs {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return nil
}
