// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package semantic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/embedding"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	idx := newIndex([]float32{
		1, 0, // row 0
		0, 1, // row 1
		1, 0, // row 2, ties with row 0
		0, 0, // row 3, zero vector
		-1, 0, // row 4
	}, 5, 2, "test")

	got := idx.Search([]float32{2, 0}, 10)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5 (topK capped at rows)", len(got))
	}

	wantRows := []catalog.RowIndex{0, 2, 1, 3, 4}
	wantSims := []float64{1, 1, 0, 0, -1}
	for i := range got {
		if got[i].Row != wantRows[i] || got[i].Similarity != wantSims[i] {
			t.Errorf("match %d = %+v, want row %d sim %v", i, got[i], wantRows[i], wantSims[i])
		}
		if got[i].Similarity < -1 || got[i].Similarity > 1 {
			t.Errorf("similarity %v out of range", got[i].Similarity)
		}
	}

	if top := idx.Search([]float32{0, 1}, 1); len(top) != 1 || top[0].Row != 1 {
		t.Errorf("Search top1 = %+v, want row 1", top)
	}
	if none := idx.Search([]float32{1, 0}, 0); len(none) != 0 {
		t.Errorf("topK 0 returned %d matches", len(none))
	}
}

func TestSearch_NonFiniteVectors(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	idx := newIndex([]float32{
		1, 0, // row 0
		0, 1, // row 1
		nan, 1, // row 2
		inf, 0, // row 3
	}, 4, 2, "test")

	tests := []struct {
		name     string
		query    []float32
		wantRows []catalog.RowIndex
		wantSims []float64
	}{
		{"non-finite rows score zero", []float32{1, 0}, []catalog.RowIndex{0, 1, 2, 3}, []float64{1, 0, 0, 0}},
		{"non-finite query scores zero everywhere", []float32{nan, 0}, []catalog.RowIndex{0, 1, 2, 3}, []float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := idx.Search(tt.query, 4)
			if len(got) != len(tt.wantRows) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantRows))
			}
			for i, m := range got {
				if math.IsNaN(m.Similarity) || m.Similarity < -1 || m.Similarity > 1 {
					t.Errorf("match %d similarity %v out of [-1, 1]", i, m.Similarity)
				}
				if m.Row != tt.wantRows[i] || m.Similarity != tt.wantSims[i] {
					t.Errorf("match %d = %+v, want row %d sim %v", i, m, tt.wantRows[i], tt.wantSims[i])
				}
			}
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	items := []catalog.Item{catalog.NewItem(1), catalog.NewItem(2), catalog.NewItem(3)}
	items[0].Name, items[0].FlavourTags = "Plum Wine", "sweet|plum"
	items[1].Name, items[1].FlavourTags = "Junmai", "dry|rice"
	items[2].Name, items[2].FlavourTags = "Yuzu Liqueur", "citrus|sour"
	store, err := catalog.NewStore(items)
	if err != nil {
		t.Fatal(err)
	}

	enc := embedding.NewHashEmbedder(256)
	idx, err := newTestBuilder(enc, nil, "").BuildOrLoad(ctx, store)
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Query(ctx, enc, "Name: Junmai. Flavors: dry, rice", 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len = %d, want 2", len(matches))
	}
	if matches[0].Row != 1 {
		t.Errorf("best match row = %d, want 1", matches[0].Row)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches not sorted by similarity")
	}

	_, err = idx.Query(ctx, embedding.NewHashEmbedder(8), "dry", 2)
	if !errors.Is(err, embedding.ErrDimensionMismatch) {
		t.Errorf("Query() with wrong width error = %v, want ErrDimensionMismatch", err)
	}
}
