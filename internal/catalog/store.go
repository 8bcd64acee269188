// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned by NewStore when two items share an ItemID.
var ErrDuplicateID = errors.New("duplicate item id")

// Store is the immutable, in-memory catalog.
type Store struct {
	items []Item
	tags  [][]string
	rows  map[ItemID]RowIndex
}

// NewStore builds a Store from items in load order. The slice is copied.
func NewStore(items []Item) (*Store, error) {
	s := &Store{
		items: make([]Item, len(items)),
		tags:  make([][]string, len(items)),
		rows:  make(map[ItemID]RowIndex, len(items)),
	}
	copy(s.items, items)

	for i := range s.items {
		id := s.items[i].ID
		if _, dup := s.rows[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
		}
		s.rows[id] = RowIndex(i)
		s.tags[i] = s.items[i].Tags()
	}

	return s, nil
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Lookup maps an ItemID to its row.
func (s *Store) Lookup(id ItemID) (RowIndex, bool) {
	row, ok := s.rows[id]
	return row, ok
}

// Item returns the item at row. The returned pointer must not be modified.
func (s *Store) Item(row RowIndex) *Item {
	return &s.items[row]
}

// Tags returns the parsed flavour tags of the item at row.
func (s *Store) Tags(row RowIndex) []string {
	return s.tags[row]
}

// Each calls fn for every row in load order.
func (s *Store) Each(fn func(row RowIndex, it *Item)) {
	for i := range s.items {
		fn(RowIndex(i), &s.items[i])
	}
}

// IDRange returns the smallest and largest ItemID. Both are zero for an
// empty store.
func (s *Store) IDRange() (minID, maxID ItemID) {
	for i := range s.items {
		id := s.items[i].ID
		if i == 0 || id < minID {
			minID = id
		}
		if i == 0 || id > maxID {
			maxID = id
		}
	}
	return minID, maxID
}
