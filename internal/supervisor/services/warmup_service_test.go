// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// mockWarmer fails the first failures calls, then succeeds.
type mockWarmer struct {
	calls    atomic.Int32
	failures int32
	delay    time.Duration
}

func (m *mockWarmer) Warm(ctx context.Context) error {
	n := m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if n <= m.failures {
		return errors.New("catalog unavailable")
	}
	return nil
}

func TestWarmupService_Interface(t *testing.T) {
	var _ suture.Service = (*WarmupService)(nil)
}

func TestNewWarmupService_Defaults(t *testing.T) {
	svc := NewWarmupService(&mockWarmer{}, WarmupConfig{}, zerolog.Nop())

	if svc.config.Timeout != 30*time.Minute {
		t.Errorf("Timeout = %v, want 30m", svc.config.Timeout)
	}
	if svc.String() != "index-warmup" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestWarmupService_Serve(t *testing.T) {
	t.Run("warms once then idles", func(t *testing.T) {
		warmer := &mockWarmer{}
		svc := NewWarmupService(warmer, WarmupConfig{Enabled: true}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want deadline exceeded", err)
		}
		if got := warmer.calls.Load(); got != 1 {
			t.Errorf("Warm calls = %d, want 1", got)
		}
	})

	t.Run("disabled never warms", func(t *testing.T) {
		warmer := &mockWarmer{}
		svc := NewWarmupService(warmer, WarmupConfig{Enabled: false}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_ = svc.Serve(ctx)
		if got := warmer.calls.Load(); got != 0 {
			t.Errorf("Warm calls = %d, want 0", got)
		}
	})

	t.Run("failure is returned for restart", func(t *testing.T) {
		warmer := &mockWarmer{failures: 1}
		svc := NewWarmupService(warmer, WarmupConfig{Enabled: true}, zerolog.Nop())

		err := svc.Serve(context.Background())
		if err == nil || errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want warmup error", err)
		}
	})

	t.Run("attempt timeout", func(t *testing.T) {
		warmer := &mockWarmer{delay: time.Second}
		svc := NewWarmupService(warmer, WarmupConfig{Enabled: true, Timeout: 20 * time.Millisecond}, zerolog.Nop())

		err := svc.Serve(context.Background())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want wrapped deadline exceeded", err)
		}
	})
}

func TestWarmupService_RetriedBySupervisor(t *testing.T) {
	warmer := &mockWarmer{failures: 2}
	svc := NewWarmupService(warmer, WarmupConfig{Enabled: true}, zerolog.Nop())

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	deadline := time.After(time.Second)
	for warmer.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Warm calls = %d, want 3 (two failures then success)", warmer.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-errCh

	if got := warmer.calls.Load(); got != 3 {
		t.Errorf("Warm calls = %d, want exactly 3", got)
	}
}
