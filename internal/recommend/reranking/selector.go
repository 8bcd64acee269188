// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package reranking

import "github.com/tomtom215/flavorrank/internal/catalog"

// MaxResults is the size of the final id-path result list.
const MaxResults = 5

// Select returns up to limit entries from sorted, skipping the query row and
// any entry whose name has already been taken. The query item's name counts
// as taken. Items with an empty name never collide with each other.
func Select(store *catalog.Store, sorted []Scored, query catalog.RowIndex, limit int) []Scored {
	if limit <= 0 {
		limit = MaxResults
	}

	taken := make(map[string]struct{}, limit+1)
	if name := store.Item(query).Name; name != "" {
		taken[name] = struct{}{}
	}

	out := make([]Scored, 0, limit)
	for _, s := range sorted {
		if len(out) >= limit {
			break
		}
		if s.Row == query {
			continue
		}
		name := store.Item(s.Row).Name
		if name != "" {
			if _, dup := taken[name]; dup {
				continue
			}
			taken[name] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}
