// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package semantic

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

// Describe renders item as the text that gets embedded. Only non-empty parts
// are included, joined by ". ".
func Describe(item *catalog.Item) string {
	parts := make([]string, 0, 6)

	if item.BrandName != "" {
		parts = append(parts, "Brand: "+item.BrandName)
	}
	if item.Name != "" {
		parts = append(parts, "Name: "+item.Name)
	}
	if item.IntlName != "" {
		parts = append(parts, item.IntlName)
	}
	if tags := item.Tags(); len(tags) > 0 {
		parts = append(parts, "Flavors: "+strings.Join(tags, ", "))
	}
	if item.Score > 0 {
		parts = append(parts, "Rating: "+strconv.FormatFloat(item.Score, 'f', 1, 64))
	}
	if item.CheckinCount > 0 {
		parts = append(parts, "Check-ins: "+strconv.FormatInt(int64(math.Round(item.CheckinCount)), 10))
	}

	return strings.Join(parts, ". ")
}
