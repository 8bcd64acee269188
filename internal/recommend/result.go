// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package recommend

import (
	"math"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

// Decimal places kept in results.
const (
	scoreDecimals      = 2
	flavorDecimals     = 3
	similarityDecimals = 4
)

// Shape converts a catalog item into a Result at the given 1-based rank.
func Shape(item *catalog.Item, rank int) Result {
	id := int64(item.ID)
	r := Result{
		Rank:          rank,
		ID:            &id,
		Brand:         optString(item.BrandName),
		BrandIntlName: optString(item.BrandIntlName),
		Name:          optString(item.Name),
		IntlName:      optString(item.IntlName),
		Score:         optRound(item.Score, scoreDecimals),
		FlavourTags:   catalog.SplitList(item.FlavourTags),
		Pictures:      catalog.SplitList(item.Pictures),
		SimilarBrands: catalog.SplitList(item.SimilarBrands),
		YearMonth:     optString(item.YearMonth),
		Flavors: Flavors{
			F1: optRound(item.Flavors[0], flavorDecimals),
			F2: optRound(item.Flavors[1], flavorDecimals),
			F3: optRound(item.Flavors[2], flavorDecimals),
			F4: optRound(item.Flavors[3], flavorDecimals),
			F5: optRound(item.Flavors[4], flavorDecimals),
			F6: optRound(item.Flavors[5], flavorDecimals),
		},
	}
	if !catalog.Missing(item.CheckinCount) {
		n := int64(math.Round(item.CheckinCount))
		r.CheckinCount = &n
	}
	return r
}

// ShapeSemantic is Shape plus the rounded similarity of a text or flavor
// profile match.
func ShapeSemantic(item *catalog.Item, similarity float64, rank int) Result {
	r := Shape(item, rank)
	r.SimilarityScore = optRound(similarity, similarityDecimals)
	return r
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func optRound(v float64, decimals int) *float64 {
	if catalog.Missing(v) || math.IsInf(v, 0) {
		return nil
	}
	r := Round(v, decimals)
	return &r
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
