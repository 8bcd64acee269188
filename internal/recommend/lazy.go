// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package recommend

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// lazyValue initializes a value once. Concurrent first callers share one
// build; a failed build is not remembered, so the next call retries.
type lazyValue[T any] struct {
	value atomic.Pointer[T]
	group singleflight.Group
}

// get returns the value, building it with build if needed.
func (l *lazyValue[T]) get(ctx context.Context, build func(context.Context) (*T, error)) (*T, error) {
	if v := l.value.Load(); v != nil {
		return v, nil
	}

	ch := l.group.DoChan("init", func() (any, error) {
		if v := l.value.Load(); v != nil {
			return v, nil
		}
		// Detached so one caller's cancellation does not fail the others.
		v, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.value.Store(v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil //nolint:errcheck,forcetypeassert // only *T is stored
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// peek returns the value if it has been built.
func (l *lazyValue[T]) peek() *T {
	return l.value.Load()
}
