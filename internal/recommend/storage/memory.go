// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package storage

import (
	"context"
	"sync"

	"github.com/tomtom215/flavorrank/internal/metrics"
)

// MemoryStore keeps envelopes in a map. Contents are lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Name returns the backend identifier.
func (s *MemoryStore) Name() string { return "memory" }

// Get returns the blob stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, BlobMetadata, error) {
	s.mu.RLock()
	raw, ok := s.blobs[key]
	s.mu.RUnlock()

	if !ok {
		metrics.RecordBlobOperation(s.Name(), "get", "miss")
		return nil, BlobMetadata{}, ErrBlobNotFound
	}
	data, meta, err := decodeEnvelope(raw)
	metrics.RecordBlobOperation(s.Name(), "get", resultLabel(err))
	return data, meta, err
}

// Put stores data under key.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *MemoryStore) Put(_ context.Context, key string, data []byte, meta BlobMetadata) error {
	raw, _, err := encodeEnvelope(key, data, meta)
	if err != nil {
		metrics.RecordBlobOperation(s.Name(), "put", "error")
		return err
	}

	s.mu.Lock()
	s.blobs[key] = raw
	s.mu.Unlock()

	metrics.RecordBlobOperation(s.Name(), "put", "success")
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	metrics.RecordBlobOperation(s.Name(), "delete", "success")
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// putRaw stores a raw envelope; tests use it to simulate corruption.
func (s *MemoryStore) putRaw(key string, raw []byte) {
	s.mu.Lock()
	s.blobs[key] = raw
	s.mu.Unlock()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
