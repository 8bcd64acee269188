// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package semantic

import (
	"testing"

	"github.com/tomtom215/flavorrank/internal/catalog"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	full := catalog.NewItem(1)
	full.BrandName = "Asahi Shuzo"
	full.Name = "Dassai 45"
	full.IntlName = "Dassai Junmai Daiginjo"
	full.FlavourTags = "fruity|floral"
	full.Score = 8.46
	full.CheckinCount = 119.6

	bare := catalog.NewItem(2)
	bare.Name = "Hakkaisan"
	bare.Score = 0

	tests := []struct {
		name string
		item catalog.Item
		want string
	}{
		{
			name: "all parts",
			item: full,
			want: "Brand: Asahi Shuzo. Name: Dassai 45. Dassai Junmai Daiginjo. Flavors: fruity, floral. Rating: 8.5. Check-ins: 120",
		},
		{
			name: "missing and zero measures are skipped",
			item: bare,
			want: "Name: Hakkaisan",
		},
		{
			name: "empty item",
			item: catalog.NewItem(3),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Describe(&tt.item); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
