// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/flavorrank/internal/metrics"
)

// HashModelID is the ModelID reported by HashEmbedder.
const HashModelID = "feature-hash-v1"

// HashEmbedder is a deterministic feature-hashing encoder. Each lower-cased
// word and each character trigram of a word adds +1 or -1 to one bucket.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hashing encoder producing dim-wide vectors.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim < 1 {
		dim = 384
	}
	return &HashEmbedder{dim: dim}
}

// Embed encodes texts. It never fails except on a cancelled context.
func (h *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			metrics.RecordEmbedding("hash", i, time.Since(start), err)
			return nil, err
		}
		out[i] = h.embedOne(text)
	}
	metrics.RecordEmbedding("hash", len(texts), time.Since(start), nil)
	return out, nil
}

func (h *HashEmbedder) embedOne(text string) []float32 {
	v := make([]float32, h.dim)
	words := strings.FieldsFunc(strings.ToLower(NormalizeText(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h.add(v, "w:"+w, 2)
		runes := []rune("^" + w + "$")
		for i := 0; i+3 <= len(runes); i++ {
			h.add(v, "t:"+string(runes[i:i+3]), 1)
		}
	}
	L2Normalize(v)
	return v
}

// add hashes feature into a bucket; the top bit picks the sign.
func (h *HashEmbedder) add(v []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	bucket := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	v[bucket] += weight
}

// Dimension returns the vector width.
func (h *HashEmbedder) Dimension() int { return h.dim }

// ModelID returns HashModelID.
func (h *HashEmbedder) ModelID() string { return HashModelID }

// Close is a no-op.
func (h *HashEmbedder) Close() error { return nil }
