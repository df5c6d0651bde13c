// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Query describes a read: where it is cached and how to perform it.
type Query[T any] struct {
	Key   Key
	Fetch func(context.Context) (T, error)
}

func (q Query[T]) erased() func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	}
}

// Fetch returns the cached value of q when it is ready and not stale,
// otherwise it joins or starts the shared request for q's key.
func Fetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	snap, fresh := c.register(q.Key, q.erased())
	if fresh {
		v, _ := snap.Value.(T)
		return v, nil
	}
	return load[T](ctx, c, q.Key)
}

// Refetch requests q regardless of freshness. Concurrent refetches of the
// same key share one request.
func Refetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	c.register(q.Key, q.erased())
	return load[T](ctx, c, q.Key)
}

func load[T any](ctx context.Context, c *Client, key Key) (T, error) {
	v, err := c.load(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// Get returns the last known value of key, if any, without fetching.
func Get[T any](c *Client, key Key) (T, Snapshot, bool) {
	snap := c.Peek(key)
	if !snap.HasValue {
		var zero T
		return zero, snap, false
	}
	v, ok := snap.Value.(T)
	return v, snap, ok
}

// Mutation describes a write and the reads it makes stale.
type Mutation[V, R any] struct {
	Key Key
	Run func(context.Context, V) (R, error)
	// Invalidates lists key prefixes refetched after a successful run.
	Invalidates []Key
	// SkipInvalidate opts out of the invalidate-everything default that
	// applies when Invalidates is empty.
	SkipInvalidate bool
}

// Mutate runs m with vars. On success the declared keys, or every key when
// none are declared, are invalidated and refetched before Mutate returns.
// Refetch failures are logged; they do not fail the mutation.
func Mutate[V, R any](ctx context.Context, c *Client, m Mutation[V, R], vars V) (R, error) {
	res, err := m.Run(context.WithoutCancel(ctx), vars)
	if err != nil {
		return res, fmt.Errorf("%s: %w", m.Key, err)
	}

	switch {
	case len(m.Invalidates) > 0:
		err = c.Invalidate(ctx, m.Invalidates...)
	case !m.SkipInvalidate:
		err = c.InvalidateAll(ctx)
	}
	if err != nil {
		slog.Warn("refetch after mutation failed", "mutation", m.Key, "error", err)
	}
	return res, nil
}

// StartPolling refetches q every interval until done reports true for a
// fetched value, ctx ends, or stop is called. Failed refetches are retried
// on the next tick.
func StartPolling[T any](ctx context.Context, c *Client, q Query[T], interval time.Duration, done func(T) bool) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	if v, _, ok := Get[T](c, q.Key); ok && done(v) {
		cancel()
		return cancel
	}

	go func() {
		defer cancel()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			v, err := Refetch(ctx, c, q)
			if err != nil {
				continue
			}
			if done(v) {
				return
			}
		}
	}()
	return cancel
}
