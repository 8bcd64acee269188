// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/flavorrank/internal/metrics"
)

// blobKeyPrefix namespaces blob keys inside the Badger keyspace.
const blobKeyPrefix = "blob:"

// BadgerStore stores envelopes in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB at path. An empty path opens
// an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already open database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Name returns the backend identifier.
func (s *BadgerStore) Name() string { return "badger" }

// Get returns the blob stored under key.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, BlobMetadata, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBlobNotFound
		}
		if err != nil {
			return fmt.Errorf("get blob: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, ErrBlobNotFound) {
		metrics.RecordBlobOperation(s.Name(), "get", "miss")
		return nil, BlobMetadata{}, err
	}
	if err != nil {
		metrics.RecordBlobOperation(s.Name(), "get", "error")
		return nil, BlobMetadata{}, err
	}

	data, meta, err := decodeEnvelope(raw)
	metrics.RecordBlobOperation(s.Name(), "get", resultLabel(err))
	return data, meta, err
}

// Put stores data under key.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Put(_ context.Context, key string, data []byte, meta BlobMetadata) error {
	raw, _, err := encodeEnvelope(key, data, meta)
	if err != nil {
		metrics.RecordBlobOperation(s.Name(), "put", "error")
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(blobKeyPrefix+key), raw)
	})
	metrics.RecordBlobOperation(s.Name(), "put", resultLabel(err))
	if err != nil {
		return fmt.Errorf("set blob: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *BadgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(blobKeyPrefix + key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	metrics.RecordBlobOperation(s.Name(), "delete", resultLabel(err))
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
