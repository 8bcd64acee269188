// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package algorithms

import (
	"strings"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

// Vocabulary is the ordered list of feature labels derived from one item.
type Vocabulary []string

// ExtractVocabulary returns item's brand name (if non-empty) followed by its
// non-empty trimmed flavour tags. Repeated labels keep their first position.
func ExtractVocabulary(item *catalog.Item) Vocabulary {
	tags := item.Tags()
	vocab := make(Vocabulary, 0, len(tags)+1)
	seen := make(map[string]struct{}, len(tags)+1)

	add := func(term string) {
		if term == "" {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		vocab = append(vocab, term)
	}

	add(strings.TrimSpace(item.BrandName))
	for _, t := range tags {
		add(t)
	}
	return vocab
}

// FeatureMatrix is a dense row-major 0/1 matrix of catalog rows by vocabulary terms.
type FeatureMatrix struct {
	Terms Vocabulary
	rows  int
	bits  []uint8
}

// Encode builds the feature matrix of every row in store against vocab.
func Encode(store *catalog.Store, vocab Vocabulary) *FeatureMatrix {
	cols := len(vocab)
	m := &FeatureMatrix{
		Terms: vocab,
		rows:  store.Len(),
		bits:  make([]uint8, store.Len()*cols),
	}
	if cols == 0 {
		return m
	}

	store.Each(func(row catalog.RowIndex, item *catalog.Item) {
		brand := strings.TrimSpace(item.BrandName)
		tags := store.Tags(row)
		base := int(row) * cols
		for c, term := range vocab {
			if term == brand || contains(tags, term) {
				m.bits[base+c] = 1
			}
		}
	})
	return m
}

// Rows returns the number of encoded catalog rows.
func (m *FeatureMatrix) Rows() int { return m.rows }

// Cols returns the vocabulary size.
func (m *FeatureMatrix) Cols() int { return len(m.Terms) }

// Row returns the encoded vector of row r. The slice aliases the matrix.
func (m *FeatureMatrix) Row(r catalog.RowIndex) []uint8 {
	cols := len(m.Terms)
	start := int(r) * cols
	return m.bits[start : start+cols]
}

// At returns the bit for row r and vocabulary column c.
func (m *FeatureMatrix) At(r catalog.RowIndex, c int) uint8 {
	return m.bits[int(r)*len(m.Terms)+c]
}

// mismatches counts the differing coordinates of two rows, i.e. the squared
// Euclidean distance between binary vectors.
func (m *FeatureMatrix) mismatches(a, b catalog.RowIndex) int {
	ra, rb := m.Row(a), m.Row(b)
	n := 0
	for i := range ra {
		if ra[i] != rb[i] {
			n++
		}
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
