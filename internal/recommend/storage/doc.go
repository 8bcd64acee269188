// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

// Package storage persists opaque blobs for the recommendation engine,
// currently the semantic index vectors.
//
// # Overview
//
// BlobStore is a keyed get/put/delete interface with three backends:
//   - BadgerStore: embedded BadgerDB directory (default, survives restarts)
//   - RedisStore: shared Redis instance, optional TTL
//   - MemoryStore: process-local map, used in tests and for "memory" mode
//
// # Envelope Format
//
// Every backend stores the same envelope: a gob-encoded struct carrying
// BlobMetadata and the gzip-compressed payload. The metadata records a
// SHA-256 checksum of the uncompressed payload, verified on every Get.
// A checksum mismatch or an undecodable envelope returns ErrBlobCorrupt so
// callers can treat it like a miss and rebuild.
//
// # Usage
//
//	store, err := storage.NewBlobStore(cfg.Index, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.Put(ctx, "index:minilm", data, storage.BlobMetadata{Kind: "semantic-index"}); err != nil {
//	    return err
//	}
//	data, meta, err := store.Get(ctx, "index:minilm")
//	if errors.Is(err, storage.ErrBlobNotFound) {
//	    // build it
//	}
package storage
