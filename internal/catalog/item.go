// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package catalog

import (
	"math"
	"strings"
)

// FlavorDims is the number of flavor-intensity dimensions (f1..f6).
const FlavorDims = 6

// ListSeparator joins multi-value string fields in the source table.
const ListSeparator = "|"

// ItemID is the stable identifier of a catalog item.
type ItemID int64

// RowIndex is the load-order position of an item inside a Store.
// It is only meaningful for the Store that produced it.
type RowIndex int

// Item is one catalog entry.
//
// Numeric measures use NaN for "missing" so that the ranking kernels can
// treat absent values as neutral instead of as zero.
type Item struct {
	ID            ItemID
	Name          string
	IntlName      string
	BrandName     string
	BrandIntlName string
	YearMonth     string

	// Rank is the source ranking position, nil when absent.
	Rank *int64

	// Score is the quality rating. NaN when missing.
	Score float64

	// Flavors holds f1..f6. Each entry is NaN when missing.
	Flavors [FlavorDims]float64

	// CheckinCount is the popularity proxy. Stored as float64 so that a
	// missing count can be represented as NaN.
	CheckinCount float64

	// Raw ListSeparator-joined fields.
	FlavourTags   string
	Pictures      string
	SimilarBrands string
}

// Missing reports whether a numeric measure is absent.
func Missing(v float64) bool {
	return math.IsNaN(v)
}

// SplitList splits a ListSeparator-joined field, trimming whitespace and
// dropping empty entries. It returns an empty, non-nil slice for an empty field.
func SplitList(s string) []string {
	out := make([]string, 0, strings.Count(s, ListSeparator)+1)
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Tags returns the item's flavour tags as a cleaned list.
func (it *Item) Tags() []string {
	return SplitList(it.FlavourTags)
}

// NewItem returns an Item with every numeric measure marked missing.
// Callers fill in whatever the source provides.
func NewItem(id ItemID) Item {
	it := Item{
		ID:           id,
		Score:        math.NaN(),
		CheckinCount: math.NaN(),
	}
	for i := range it.Flavors {
		it.Flavors[i] = math.NaN()
	}
	return it
}
