// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package catalog holds the in-memory beverage catalog shared by both
// recommendation paths.
//
// # Identifiers
//
// Every item carries a stable ItemID that comes from the source table. The
// Store additionally assigns each item a RowIndex, its position in load
// order. RowIndex values address rows inside the ranking code only; they
// are never written to results, caches keyed by content, or API responses.
// The ItemID -> RowIndex mapping is built once by NewStore and is total.
//
// # Loading
//
// Load reads the products table through an embedded DuckDB connection. The
// table can live in a DuckDB file, in PostgreSQL (attached through DuckDB's
// postgres extension), or in a CSV file read with read_csv_auto. When the
// primary source fails and fallback is enabled, the CSV file is used.
// Numeric gaps are filled with the column median and text gaps with the
// empty string before the Store is built. Values that cannot be parsed
// become NULL first, so a single malformed row never aborts the load.
//
// # Thread Safety
//
// A Store is immutable after NewStore returns and is safe for concurrent
// readers without locking.
package catalog
