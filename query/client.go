// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package query

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrRemoved is returned to callers waiting on a key that was removed from
// the cache before its request could settle.
var ErrRemoved = errors.New("query: entry removed")

// Snapshot is a consistent view of one cache entry.
type Snapshot struct {
	Key       Key
	Status    Status
	Value     any
	HasValue  bool
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

type entry struct {
	key   Key
	gen   uint64
	fetch func(context.Context) (any, error)

	value     any
	hasValue  bool
	err       error
	status    Status
	stale     bool
	updatedAt time.Time

	subs map[int]*Subscription
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Key:       e.key,
		Status:    e.status,
		Value:     e.value,
		HasValue:  e.hasValue,
		Err:       e.err,
		Stale:     e.stale,
		UpdatedAt: e.updatedAt,
	}
}

// Subscription is a live interest in one key. Invalidated keys with live
// subscriptions are refetched; keys without are only marked stale.
type Subscription struct {
	id     int
	key    Key
	fn     func(Snapshot)
	client *Client
	closed atomic.Bool
}

// Close ends the subscription. Notifications racing with Close are dropped.
func (s *Subscription) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	if e, ok := s.client.entries[s.key.String()]; ok {
		delete(e.subs, s.id)
	}
}

// Client is the process-wide read cache.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextSub int
	// gen numbers entries in creation order. A key removed and created
	// again gets a new generation, so results of the old one are dropped.
	gen uint64

	// notifyMu orders transitions so every subscriber of a key observes
	// them in the same sequence. Subscribers must not start fetches from
	// inside their callback.
	notifyMu sync.Mutex

	group singleflight.Group
	now   func() time.Time
}

// NewClient returns an empty cache.
func NewClient() *Client {
	return &Client{
		entries: map[string]*entry{},
		now:     time.Now,
	}
}

// entryLocked returns the entry for key, creating it. c.mu must be held.
func (c *Client) entryLocked(key Key) *entry {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		c.gen++
		e = &entry{key: append(Key(nil), key...), gen: c.gen, subs: map[int]*Subscription{}}
		c.entries[k] = e
	}
	return e
}

// Subscribe calls fn after every state transition of key until the
// subscription is closed.
func (c *Client) Subscribe(key Key, fn func(Snapshot)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	s := &Subscription{id: c.nextSub, key: e.key, fn: fn, client: c}
	c.nextSub++
	e.subs[s.id] = s
	return s
}

// Peek returns the current snapshot of key without fetching.
func (c *Client) Peek(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok {
		return e.snapshot()
	}
	return Snapshot{Key: key, Status: StatusUninitialized}
}

// transition mutates the entry for key under the cache lock and then
// notifies its subscribers in id order. It never creates entries: when
// key is gone or now belongs to a later generation than gen, nothing
// happens and ok is false.
func (c *Client) transition(key Key, gen uint64, mutate func(*entry)) (snap Snapshot, ok bool) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if !ok || e.gen != gen {
		c.mu.Unlock()
		return Snapshot{}, false
	}
	mutate(e)
	snap = e.snapshot()
	subs := make([]*Subscription, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		if s.closed.Load() || s.fn == nil {
			continue
		}
		s.fn(snap)
	}
	return snap, true
}

// load runs the registered fetcher for key, sharing one in-flight request
// between concurrent callers. The request itself is detached from ctx;
// ctx only bounds how long this caller waits. A key without a fetcher,
// or one removed while its request runs, fails with ErrRemoved.
func (c *Client) load(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	var gen uint64
	if e, ok := c.entries[key.String()]; ok && e.fetch != nil {
		gen = e.gen
	}
	c.mu.Unlock()
	if gen == 0 {
		return nil, ErrRemoved
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		var fetch func(context.Context) (any, error)
		_, ok := c.transition(key, gen, func(e *entry) {
			fetch = e.fetch
			if e.status == StatusUninitialized {
				e.status = StatusLoading
			} else {
				e.status = StatusRefetching
			}
		})
		if !ok {
			return nil, ErrRemoved
		}

		v, err := fetch(detached)

		_, ok = c.transition(key, gen, func(e *entry) {
			if err != nil {
				e.err = err
				e.status = StatusError
				return
			}
			e.value = v
			e.hasValue = true
			e.err = nil
			e.status = StatusReady
			e.stale = false
			e.updatedAt = c.now()
		})
		if !ok {
			slog.Debug("dropping result of removed query", "key", key)
			return nil, ErrRemoved
		}
		if err != nil {
			slog.Warn("query failed", "key", key, "error", err)
		}
		return v, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) register(key Key, fetch func(context.Context) (any, error)) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.fetch = fetch
	fresh := e.status == StatusReady && !e.stale
	return e.snapshot(), fresh
}

// Invalidate marks every entry whose key starts with one of prefixes as
// stale and refetches those with live subscriptions, returning once the
// refetches settle. With no prefixes every entry is invalidated.
func (c *Client) Invalidate(ctx context.Context, prefixes ...Key) error {
	var refetch []Key

	c.mu.Lock()
	for _, e := range c.entries {
		if !matchesAny(e.key, prefixes) {
			continue
		}
		e.stale = true
		if len(e.subs) > 0 && e.fetch != nil {
			refetch = append(refetch, e.key)
		}
	}
	c.mu.Unlock()

	var g errgroup.Group
	for _, key := range refetch {
		g.Go(func() error {
			_, err := c.load(ctx, key)
			if errors.Is(err, ErrRemoved) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// InvalidateAll invalidates every entry.
func (c *Client) InvalidateAll(ctx context.Context) error {
	return c.Invalidate(ctx)
}

// Remove drops the entries whose key starts with prefix. Subscriptions
// on removed entries stop receiving notifications.
func (c *Client) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			for _, s := range e.subs {
				s.closed.Store(true)
			}
			delete(c.entries, k)
		}
	}
}

// Clear drops every entry, for example after the viewer signs out.
func (c *Client) Clear() {
	c.Remove(Key{})
}

func matchesAny(key Key, prefixes []Key) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if key.HasPrefix(p) {
			return true
		}
	}
	return false
}
