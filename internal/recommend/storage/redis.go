// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/flavorrank/internal/metrics"
)

// redisKeyPrefix namespaces blob keys in a shared Redis database.
const redisKeyPrefix = "flavorrank:blob:"

// RedisStore stores envelopes as Redis string values.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr/db and verifies the connection with PING.
// A zero ttl keeps blobs until deleted.
func NewRedisStore(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection never became usable
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Name returns the backend identifier.
func (s *RedisStore) Name() string { return "redis" }

// Get returns the blob stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, BlobMetadata, error) {
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordBlobOperation(s.Name(), "get", "miss")
		return nil, BlobMetadata{}, ErrBlobNotFound
	}
	if err != nil {
		metrics.RecordBlobOperation(s.Name(), "get", "error")
		return nil, BlobMetadata{}, fmt.Errorf("redis get: %w", err)
	}

	data, meta, err := decodeEnvelope(raw)
	metrics.RecordBlobOperation(s.Name(), "get", resultLabel(err))
	return data, meta, err
}

// Put stores data under key with the configured TTL.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *RedisStore) Put(ctx context.Context, key string, data []byte, meta BlobMetadata) error {
	raw, _, err := encodeEnvelope(key, data, meta)
	if err != nil {
		metrics.RecordBlobOperation(s.Name(), "put", "error")
		return err
	}

	err = s.client.Set(ctx, redisKey(key), raw, s.ttl).Err()
	metrics.RecordBlobOperation(s.Name(), "put", resultLabel(err))
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := s.client.Del(ctx, redisKey(key)).Err()
	metrics.RecordBlobOperation(s.Name(), "delete", resultLabel(err))
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}
