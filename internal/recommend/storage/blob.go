// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrBlobNotFound is returned when a key has no stored blob.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrBlobCorrupt is returned when a stored envelope fails to decode or verify.
	ErrBlobCorrupt = errors.New("blob corrupt")
)

// BlobMetadata describes a stored blob.
type BlobMetadata struct {
	// Key is the storage key; filled in by Put.
	Key string `json:"key"`

	// Kind is a free-form tag set by the caller (e.g. "semantic-index").
	Kind string `json:"kind"`

	// SavedAt is when the blob was written.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the uncompressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// CompressedBytes is the gzip payload size.
	CompressedBytes int64 `json:"compressed_bytes"`
}

// BlobStore is a keyed store for opaque payloads.
type BlobStore interface {
	// Name identifies the backend ("badger", "redis", "memory").
	Name() string

	// Get returns the payload and metadata for key, or ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, BlobMetadata, error)

	// Put stores data under key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte, meta BlobMetadata) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// envelope is the stored representation shared by all backends.
type envelope struct {
	Metadata       BlobMetadata
	CompressedData []byte
}

// encodeEnvelope compresses data and wraps it with checksummed metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encodeEnvelope(key string, data []byte, meta BlobMetadata) ([]byte, BlobMetadata, error) {
	hash := sha256.Sum256(data)
	meta.Key = key
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(len(data))
	if meta.SavedAt.IsZero() {
		meta.SavedAt = time.Now().UTC()
	}

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(data); err != nil {
		return nil, meta, fmt.Errorf("compress blob: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}
	meta.CompressedBytes = int64(compressed.Len())

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, meta, fmt.Errorf("encode blob envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// decodeEnvelope reverses encodeEnvelope and verifies the checksum.
func decodeEnvelope(raw []byte) ([]byte, BlobMetadata, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, BlobMetadata{}, fmt.Errorf("%w: decode envelope: %v", ErrBlobCorrupt, err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, env.Metadata, fmt.Errorf("%w: decompress: %v", ErrBlobCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	data, err := io.ReadAll(gzr)
	if err != nil {
		return nil, env.Metadata, fmt.Errorf("%w: read payload: %v", ErrBlobCorrupt, err)
	}

	hash := sha256.Sum256(data)
	if got := hex.EncodeToString(hash[:]); got != env.Metadata.Checksum {
		return nil, env.Metadata, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrBlobCorrupt, env.Metadata.Checksum, got)
	}
	return data, env.Metadata, nil
}
