// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

/*
Package semantic implements free-text search over the catalog.

Each item is rendered to a short description (Describe) and encoded with an
embedding.Embedder. The resulting matrix is cached in a storage.BlobStore
under "index:<model-id>" so restarts skip the encoder.

# Cache Validation

The cached blob carries a header with the row count, vector width, model id
and a content fingerprint (xxhash over every item id and description). Two
validation modes are supported:

  - fingerprint (default): rows, width and fingerprint must all match
  - shape: only rows and width must match; an in-place content edit that
    keeps the row count will serve stale vectors

A mismatch, a corrupt blob or a model change triggers a full rebuild. There
is no partial reuse.

# Blob Layout

	uint32 LE  header length
	[]byte     JSON header
	[]float32  LE, rows*cols values, row-major in catalog order

# Query

Query embeds the text with the same encoder, scores every row by cosine
similarity (clamped to [-1, 1]) and returns the topK rows, ties broken by
catalog order.
*/
package semantic
